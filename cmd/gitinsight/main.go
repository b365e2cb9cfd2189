package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vilaca/gitinsight/internal/analysis"
	"github.com/vilaca/gitinsight/internal/api"
	"github.com/vilaca/gitinsight/internal/api/github"
	"github.com/vilaca/gitinsight/internal/config"
	"github.com/vilaca/gitinsight/internal/dashboard"
	"github.com/vilaca/gitinsight/internal/logger"
	"github.com/vilaca/gitinsight/internal/service"
)

const (
	avatarCacheSize = 128
	avatarCacheTTL  = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sugar, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, sugar); err != nil {
		sugar.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	handler, sessions, err := buildServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sessions.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting GitInsight", "addr", "http://localhost"+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildServer wires up all dependencies and returns the configured HTTP handler.
func buildServer(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (http.Handler, *dashboard.SessionStore, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	// GitHub calls are not time-limited; superseded searches cancel their requests.
	httpClient := &http.Client{}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL:  cfg.GitHubURL,
		Token:    cfg.GitHubToken,
		Location: loc,
	}, httpClient)
	if !cfg.HasGitHubToken() {
		log.Infow("GITHUB_TOKEN not set, using unauthenticated rate limits")
	}

	var generator analysis.Generator
	if cfg.HasGeminiConfig() {
		gemini, err := analysis.NewGeminiGenerator(ctx, analysis.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		generator = gemini
		log.Infow("AI analysis enabled", "model", gemini.Name())
	} else {
		log.Warnw("GEMINI_API_KEY not set, AI analysis disabled")
	}
	analyzer := analysis.NewAnalyzer(generator, log)

	sessions := dashboard.NewSessionStore(cfg.MaxSessions, cfg.SessionTTL, func() dashboard.QueryController {
		qs := service.NewQueryService(githubClient, analyzer, log)
		qs.Submit(cfg.DefaultUsername)
		return qs
	}, log)

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer: dashboard.NewHTMLRenderer(),
		Logger:   log,
		Sessions: sessions,
		Avatars:  dashboard.NewAvatarCache(httpClient, avatarCacheSize, avatarCacheTTL, log),
	})

	// Register routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return dashboard.RequestLogger(log, mux), sessions, nil
}
