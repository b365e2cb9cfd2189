// Package analysis asks a generative model for a narrative summary of a profile.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vilaca/gitinsight/internal/domain"
	"github.com/vilaca/gitinsight/internal/logger"
	"github.com/vilaca/gitinsight/internal/stats"
)

const (
	// maxContextRepos is the number of repositories described to the model.
	maxContextRepos = 10

	promptPrefix = "Analyze this GitHub user profile data and provide a professional assessment: "

	systemInstruction = "You are a senior technical recruiter and engineering manager. " +
		"Your goal is to provide insightful, accurate, and encouraging profiles of developers " +
		"based on their public GitHub activity."
)

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("analysis: no response from model")

// Generator sends a prompt to a model constrained to the enrichment schema
// and returns the raw JSON text it produced.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Analyzer turns a profile and its repositories into an Enrichment.
type Analyzer struct {
	generator Generator
	logger    logger.Logger
}

// NewAnalyzer creates an Analyzer. A nil generator yields the fallback for every call.
func NewAnalyzer(generator Generator, log logger.Logger) *Analyzer {
	if generator == nil {
		generator = disabledGenerator{}
	}
	return &Analyzer{generator: generator, logger: log}
}

// Analyze never fails: any problem is logged and answered with domain.FallbackEnrichment.
func (a *Analyzer) Analyze(ctx context.Context, profile domain.Profile, repos []domain.Repository) domain.Enrichment {
	prompt, err := BuildPrompt(profile, repos)
	if err != nil {
		a.logger.Warnw("analysis prompt could not be built", "login", profile.Login, "error", err)
		return domain.FallbackEnrichment()
	}

	text, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		a.logger.Warnw("analysis request failed", "login", profile.Login, "error", err)
		return domain.FallbackEnrichment()
	}

	result, err := parseEnrichment(text)
	if err != nil {
		a.logger.Warnw("analysis response rejected", "login", profile.Login, "error", err)
		return domain.FallbackEnrichment()
	}

	a.logger.Debugw("analysis completed", "login", profile.Login, "skills", len(result.TopSkills))
	return result
}

// profileContext is the condensed view of a profile sent to the model.
type profileContext struct {
	Username        string        `json:"username"`
	Name            string        `json:"name"`
	Bio             string        `json:"bio"`
	Location        string        `json:"location"`
	Company         string        `json:"company"`
	Followers       int           `json:"followers"`
	TopRepositories []repoContext `json:"top_repositories"`
	AllLanguages    []string      `json:"all_languages"`
}

type repoContext struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
}

// BuildPrompt describes the profile, its ten most starred repositories and
// every language used across all repositories.
func BuildPrompt(profile domain.Profile, repos []domain.Repository) (string, error) {
	top := stats.TopByStars(repos, maxContextRepos)
	condensed := make([]repoContext, 0, len(top))
	for _, r := range top {
		topics := r.Topics
		if topics == nil {
			topics = []string{}
		}
		condensed = append(condensed, repoContext{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Topics:      topics,
			Stars:       r.Stars,
		})
	}

	payload, err := json.Marshal(profileContext{
		Username:        profile.Login,
		Name:            profile.Name,
		Bio:             profile.Bio,
		Location:        profile.Location,
		Company:         profile.Company,
		Followers:       profile.Followers,
		TopRepositories: condensed,
		AllLanguages:    stats.DistinctLanguages(repos),
	})
	if err != nil {
		return "", fmt.Errorf("marshal profile context: %w", err)
	}

	return promptPrefix + string(payload), nil
}

func parseEnrichment(text string) (domain.Enrichment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Enrichment{}, ErrEmptyResponse
	}

	var result domain.Enrichment
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return domain.Enrichment{}, fmt.Errorf("decode model output: %w", err)
	}

	if result.TopSkills == nil {
		result.TopSkills = []string{}
	}
	if result.SuggestedRoles == nil {
		result.SuggestedRoles = []string{}
	}
	return result, nil
}

// ErrNotConfigured is returned by the generator used when no API key is set.
var ErrNotConfigured = errors.New("analysis: no model API key configured")

type disabledGenerator struct{}

func (disabledGenerator) GenerateJSON(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
