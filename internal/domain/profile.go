package domain

// Profile represents a GitHub account as returned by the users endpoint.
// Optional fields are empty strings when GitHub reports them as null.
type Profile struct {
	Login           string `json:"login"`
	Name            string `json:"name"`
	AvatarURL       string `json:"avatarUrl"`
	WebURL          string `json:"webUrl"`
	Bio             string `json:"bio,omitempty"`
	Company         string `json:"company,omitempty"`
	Location        string `json:"location,omitempty"`
	Blog            string `json:"blog,omitempty"`
	TwitterUsername string `json:"twitterUsername,omitempty"`
	Email           string `json:"email,omitempty"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
	PublicRepos     int    `json:"publicRepos"`
}

// DisplayName returns the profile name, falling back to the login.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}
