package domain

const (
	// DefaultGitHubURL is the public GitHub REST endpoint.
	DefaultGitHubURL = "https://api.github.com"
	// DefaultUsername is looked up when a new session opens the dashboard.
	DefaultUsername = "google"
)
