package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vilaca/gitinsight/internal/api"
	"github.com/vilaca/gitinsight/internal/domain"
)

// Client implements api.Client against the GitHub REST API.
// Each call is a single request: no retries, no caching.
type Client struct {
	*api.BaseClient
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	if config.BaseURL == "" {
		config.BaseURL = domain.DefaultGitHubURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{BaseClient: api.NewBaseClient(config, httpClient)}
}

// FetchProfile retrieves a user account.
func (c *Client) FetchProfile(ctx context.Context, handle string) (*domain.Profile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.BaseURL, url.PathEscape(handle))

	var user githubUser
	if err := c.doRequest(ctx, endpoint, &user); err != nil {
		return nil, fmt.Errorf("fetch profile %q: %w", handle, err)
	}

	return convertProfile(user), nil
}

// FetchRepositories retrieves the most recently updated repositories of a user.
func (c *Client) FetchRepositories(ctx context.Context, handle string) ([]domain.Repository, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d",
		c.BaseURL, url.PathEscape(handle), api.DefaultPageSize)

	var repos []githubRepository
	if err := c.doRequest(ctx, endpoint, &repos); err != nil {
		return nil, fmt.Errorf("fetch repositories %q: %w", handle, err)
	}

	return convertRepositories(repos), nil
}

// doRequest performs a GET and decodes the JSON body into result.
// Every failure it returns carries an api.ErrorKind, except context cancellation.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return api.NewNetworkError(fmt.Errorf("failed to create request: %w", err))
	}

	if c.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.DoLimited(req)
	if err != nil {
		return api.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if apiErr := api.Classify(resp.StatusCode, api.StatusText(resp), resp.Header, c.Location); apiErr != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return api.NewInvalidResponseError(err)
	}

	return nil
}

func convertProfile(u githubUser) *domain.Profile {
	return &domain.Profile{
		Login:           u.Login,
		Name:            u.Name,
		AvatarURL:       u.AvatarURL,
		WebURL:          u.HTMLURL,
		Bio:             u.Bio,
		Company:         u.Company,
		Location:        u.Location,
		Blog:            u.Blog,
		TwitterUsername: u.TwitterUsername,
		Email:           u.Email,
		Followers:       u.Followers,
		Following:       u.Following,
		PublicRepos:     u.PublicRepos,
	}
}

func convertRepositories(ghRepos []githubRepository) []domain.Repository {
	repos := make([]domain.Repository, 0, len(ghRepos))
	for _, r := range ghRepos {
		repos = append(repos, domain.Repository{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Private:     r.Private,
			Language:    r.Language,
			Stars:       r.StargazersCount,
			Forks:       r.ForksCount,
			UpdatedAt:   r.UpdatedAt,
			WebURL:      r.HTMLURL,
			Topics:      r.Topics,
		})
	}
	return repos
}

// GitHub API response types. Nullable strings decode to "".
type githubUser struct {
	Login           string `json:"login"`
	Name            string `json:"name"`
	AvatarURL       string `json:"avatar_url"`
	HTMLURL         string `json:"html_url"`
	Bio             string `json:"bio"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Blog            string `json:"blog"`
	TwitterUsername string `json:"twitter_username"`
	Email           string `json:"email"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
	PublicRepos     int    `json:"public_repos"`
}

type githubRepository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Private         bool      `json:"private"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
	HTMLURL         string    `json:"html_url"`
	Topics          []string  `json:"topics"`
}
