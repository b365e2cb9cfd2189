package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vilaca/gitinsight/internal/analysis"
	"github.com/vilaca/gitinsight/internal/domain"
)

// Config holds application configuration.
type Config struct {
	Port int

	// GitHub configuration
	GitHubURL   string
	GitHubToken string

	// Gemini configuration
	GeminiAPIKey string
	GeminiModel  string

	// DefaultUsername is searched when a new session opens. Empty disables it.
	DefaultUsername string

	LogLevel    string
	SessionTTL  time.Duration
	MaxSessions int

	// Timezone is used to format rate limit reset times.
	Timezone string
}

// fileConfig mirrors Config in the optional YAML file. Unset keys keep
// the value from the environment.
type fileConfig struct {
	Port              *int    `yaml:"port"`
	GitHubURL         *string `yaml:"github_url"`
	GitHubToken       *string `yaml:"github_token"`
	GeminiAPIKey      *string `yaml:"gemini_api_key"`
	GeminiModel       *string `yaml:"gemini_model"`
	DefaultUsername   *string `yaml:"default_username"`
	LogLevel          *string `yaml:"log_level"`
	SessionTTLSeconds *int    `yaml:"session_ttl_seconds"`
	MaxSessions       *int    `yaml:"max_sessions"`
	Timezone          *string `yaml:"timezone"`
}

// Load loads configuration from environment variables, then applies the
// YAML file named by CONFIG_FILE on top.
func Load() (*Config, error) {
	defaultUsername := domain.DefaultUsername
	if v, ok := os.LookupEnv("DEFAULT_USERNAME"); ok {
		defaultUsername = strings.TrimSpace(v)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}

	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		GitHubURL:       getEnvOrDefault("GITHUB_URL", domain.DefaultGitHubURL),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		GeminiAPIKey:    apiKey,
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", analysis.DefaultModel),
		DefaultUsername: defaultUsername,
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
		MaxSessions:     getEnvInt("MAX_SESSIONS", 256),
		Timezone:        getEnvOrDefault("TIMEZONE", "Local"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if f.Port != nil && *f.Port > 0 {
		c.Port = *f.Port
	}
	setString(&c.GitHubURL, f.GitHubURL)
	setString(&c.GitHubToken, f.GitHubToken)
	setString(&c.GeminiAPIKey, f.GeminiAPIKey)
	setString(&c.GeminiModel, f.GeminiModel)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.Timezone, f.Timezone)
	if f.DefaultUsername != nil {
		c.DefaultUsername = strings.TrimSpace(*f.DefaultUsername)
	}
	if f.SessionTTLSeconds != nil && *f.SessionTTLSeconds > 0 {
		c.SessionTTL = time.Duration(*f.SessionTTLSeconds) * time.Second
	}
	if f.MaxSessions != nil && *f.MaxSessions > 0 {
		c.MaxSessions = *f.MaxSessions
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// HasGeminiConfig returns true if AI analysis is configured.
func (c *Config) HasGeminiConfig() bool {
	return c.GeminiAPIKey != ""
}

// HasGitHubToken returns true if GitHub requests are authenticated.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the positive integer value of key, or defaultValue.
func getEnvInt(key string, defaultValue int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
