package analysis

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiGenerator is a thin wrapper around the official genai client.
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

// GeminiConfig configures a GeminiGenerator.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL and HTTPClient override the public endpoint, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// NewGeminiGenerator creates a Gemini API client.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	cli, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{cli: cli, model: model}, nil
}

// Name identifies the backing model in logs.
func (g *GeminiGenerator) Name() string { return "Gemini:" + g.model }

// GenerateJSON requests application/json constrained to EnrichmentSchema.
func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    EnrichmentSchema(),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	return resp.Text(), nil
}

// EnrichmentSchema is the structured-output contract of the model.
// All four properties are required.
func EnrichmentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"professionalSummary": {
				Type:        genai.TypeString,
				Description: "A 2-3 sentence professional summary of the developer based on their work.",
			},
			"topSkills": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Top 5 technical skills or languages derived from their repositories.",
			},
			"suggestedRoles": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "3 potential job titles that fit this profile (e.g., Frontend Engineer, DevOps Specialist).",
			},
			"funFact": {
				Type:        genai.TypeString,
				Description: "A lighthearted observation or 'vibe check' based on their coding interests (e.g., 'Likely dreams in Rust').",
			},
		},
		Required: []string{"professionalSummary", "topSkills", "suggestedRoles", "funFact"},
	}
}
