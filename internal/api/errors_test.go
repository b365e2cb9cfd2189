package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	rateLimited := http.Header{}
	rateLimited.Set(HeaderRateLimitRemaining, "0")
	rateLimited.Set(HeaderRateLimitReset, "1700000000")

	quotaLeft := http.Header{}
	quotaLeft.Set(HeaderRateLimitRemaining, "12")

	tests := []struct {
		name        string
		status      int
		statusText  string
		header      http.Header
		wantKind    ErrorKind
		wantMessage string
	}{
		{
			name:        "not found",
			status:      http.StatusNotFound,
			wantKind:    KindNotFound,
			wantMessage: "User not found. Please check the username and try again.",
		},
		{
			name:        "rate limited",
			status:      http.StatusForbidden,
			header:      rateLimited,
			wantKind:    KindRateLimited,
			wantMessage: "API rate limit exceeded. Reset at 22:13.",
		},
		{
			name:        "forbidden with quota left",
			status:      http.StatusForbidden,
			header:      quotaLeft,
			wantKind:    KindForbidden,
			wantMessage: "Access forbidden. You may have been blocked by GitHub.",
		},
		{
			name:        "forbidden without headers",
			status:      http.StatusForbidden,
			wantKind:    KindForbidden,
			wantMessage: "Access forbidden. You may have been blocked by GitHub.",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			wantKind:    KindServiceUnavailable,
			wantMessage: "GitHub API is experiencing issues. Please try again later.",
		},
		{
			name:        "bad gateway",
			status:      http.StatusBadGateway,
			wantKind:    KindServiceUnavailable,
			wantMessage: "GitHub API is experiencing issues. Please try again later.",
		},
		{
			name:        "teapot",
			status:      http.StatusTeapot,
			statusText:  "I'm a teapot",
			wantKind:    KindUnexpectedStatus,
			wantMessage: "GitHub API Error (418): I'm a teapot",
		},
		{
			name:        "redirect",
			status:      http.StatusMovedPermanently,
			statusText:  "Moved Permanently",
			wantKind:    KindUnexpectedStatus,
			wantMessage: "GitHub API Error (301): Moved Permanently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == nil {
				header = http.Header{}
			}

			err := Classify(tt.status, tt.statusText, header, time.UTC)

			require.NotNil(t, err)
			assert.Equal(t, tt.wantKind, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.wantMessage, err.Error())
		})
	}
}

func TestClassify_SuccessReturnsNil(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		assert.Nil(t, Classify(status, "", http.Header{}, time.UTC), "status %d", status)
	}
}

func TestClassify_RateLimitResetFallback(t *testing.T) {
	for _, reset := range []string{"", "soon", "-5"} {
		header := http.Header{}
		header.Set(HeaderRateLimitRemaining, "0")
		if reset != "" {
			header.Set(HeaderRateLimitReset, reset)
		}

		err := Classify(http.StatusForbidden, "Forbidden", header, time.UTC)

		require.NotNil(t, err)
		assert.Equal(t, KindRateLimited, err.Kind)
		assert.Equal(t, "later", err.ResetAt)
		assert.Equal(t, "API rate limit exceeded. Reset at later.", err.Message)
	}
}

func TestClassify_RateLimitUsesLocation(t *testing.T) {
	header := http.Header{}
	header.Set(HeaderRateLimitRemaining, "0")
	header.Set(HeaderRateLimitReset, "1700000000")
	tokyo := time.FixedZone("JST", 9*60*60)

	err := Classify(http.StatusForbidden, "Forbidden", header, tokyo)

	require.NotNil(t, err)
	assert.Equal(t, "07:13", err.ResetAt)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "I'm a teapot", StatusText(&http.Response{StatusCode: 418, Status: "418 I'm a teapot"}))
	assert.Equal(t, "I'm a teapot", StatusText(&http.Response{StatusCode: 418}))
	assert.Equal(t, "Custom", StatusText(&http.Response{StatusCode: 499, Status: "499 Custom"}))
}

func TestNewNetworkError(t *testing.T) {
	// Arrange
	transport := errors.New("dial tcp: lookup api.github.com: no such host")

	// Act
	err := NewNetworkError(transport)

	// Assert
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
	assert.Equal(t, "Network error. Please check your internet connection.", err.Error())
	assert.ErrorIs(t, err, transport)
}

func TestNewNetworkError_KeepsClassifiedErrors(t *testing.T) {
	classified := Classify(http.StatusNotFound, "Not Found", http.Header{}, time.UTC)
	wrapped := fmt.Errorf("fetch profile: %w", classified)

	err := NewNetworkError(wrapped)

	assert.Same(t, wrapped, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindNotFound, kind)
}

func TestNewNetworkError_KeepsContextErrors(t *testing.T) {
	err := NewNetworkError(fmt.Errorf("Get: %w", context.Canceled))

	_, ok := KindOf(err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaseClient_DoLimitedHonoursContext(t *testing.T) {
	// Arrange
	client := NewBaseClient(ClientConfig{}, nil)
	for i := 0; i < MaxConcurrentRequests; i++ {
		client.Semaphore <- struct{}{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)

	// Act
	resp, err := client.DoLimited(req)

	// Assert
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
}
