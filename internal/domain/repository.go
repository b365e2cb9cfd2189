package domain

import "time"

// Repository is one repository owned by a Profile.
// Listings keep the order GitHub returned them in (most recently updated first).
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Private     bool      `json:"private"`
	Language    string    `json:"language,omitempty"` // empty when GitHub detected no primary language
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updatedAt"`
	WebURL      string    `json:"webUrl"`
	Topics      []string  `json:"topics,omitempty"`
}

// Visibility returns the label shown on repository cards.
func (r Repository) Visibility() string {
	if r.Private {
		return "Private"
	}
	return "Public"
}
