package api

import (
	"context"
	"time"

	"github.com/vilaca/gitinsight/internal/domain"
)

// Client defines the read-only GitHub operations the dashboard needs.
// Consumers depend on this interface, not on the concrete GitHub client.
type Client interface {
	// FetchProfile returns the account identified by handle.
	FetchProfile(ctx context.Context, handle string) (*domain.Profile, error)

	// FetchRepositories returns up to DefaultPageSize repositories of handle,
	// most recently updated first. Larger accounts are truncated.
	FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string // optional; anonymous requests get a lower rate limit

	// Location is used to format rate-limit reset times. Defaults to time.Local.
	Location *time.Location
}
