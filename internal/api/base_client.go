package api

import (
	"net/http"
	"time"
)

const (
	// MaxConcurrentRequests limits concurrent API requests across all sessions.
	MaxConcurrentRequests = 5
	// DefaultPageSize is the number of repositories requested; GitHub caps it at 100.
	DefaultPageSize = 100
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for API clients.
type BaseClient struct {
	BaseURL    string
	Token      string
	Location   *time.Location
	HTTPClient HTTPClient
	Semaphore  chan struct{} // Limits concurrent requests
}

// NewBaseClient creates a new base client with request limiting.
func NewBaseClient(config ClientConfig, httpClient HTTPClient) *BaseClient {
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &BaseClient{
		BaseURL:    config.BaseURL,
		Token:      config.Token,
		Location:   loc,
		HTTPClient: httpClient,
		Semaphore:  make(chan struct{}, MaxConcurrentRequests),
	}
}

// DoLimited sends req once a request slot is free.
// Waiting for a slot honours the request context.
func (c *BaseClient) DoLimited(req *http.Request) (*http.Response, error) {
	select {
	case c.Semaphore <- struct{}{}:
		defer func() { <-c.Semaphore }()
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}

	return c.HTTPClient.Do(req)
}
