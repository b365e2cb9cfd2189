package dashboard

import (
	"context"
	"net/http"
	"strings"

	"github.com/vilaca/gitinsight/internal/domain"
	"github.com/vilaca/gitinsight/internal/logger"
)

// Avatars serves cached profile images.
type Avatars interface {
	Get(ctx context.Context, avatarURL string) ([]byte, string, error)
}

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	renderer Renderer
	logger   logger.Logger
	sessions *SessionStore
	avatars  Avatars
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer Renderer
	Logger   logger.Logger
	Sessions *SessionStore
	Avatars  Avatars
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		sessions: cfg.Sessions,
		avatars:  cfg.Avatars,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /search", h.handleSearch)
	mux.HandleFunc("POST /retry", h.handleRetry)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/avatar/{login}", h.handleAvatar)
}

// handleIndex serves the dashboard page for the caller's session.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Controller(w, r).Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := h.renderer.RenderDashboard(w, NewPage(state)); err != nil {
		h.logger.Errorw("failed to render dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleSearch starts a lookup for the submitted username.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	query := r.PostFormValue("username")
	controller, ok := h.sessions.Lookup(r)
	if !ok {
		// Sessions start on the dashboard page.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if controller.Submit(query) {
		h.logger.Infow("search submitted", "query", strings.TrimSpace(query))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleRetry re-runs the last failed lookup.
func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	if controller, ok := h.sessions.Lookup(r); ok && controller.Retry() {
		h.logger.Infow("search retried")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleState serves the session's query state as JSON.
// Callers without a session get the idle state.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	state := domain.NewQueryState()
	if controller, ok := h.sessions.Lookup(r); ok {
		state = controller.Snapshot()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := h.renderer.RenderState(w, state); err != nil {
		h.logger.Errorw("failed to render state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Errorw("failed to render health", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleAvatar proxies the avatar of the profile currently shown to the caller.
// Only that profile's image is served so the proxy cannot fetch arbitrary URLs.
func (h *Handler) handleAvatar(w http.ResponseWriter, r *http.Request) {
	login := r.PathValue("login")

	controller, ok := h.sessions.Lookup(r)
	if !ok {
		http.Error(w, "Avatar not found", http.StatusNotFound)
		return
	}

	state := controller.Snapshot()
	if state.Profile == nil || state.Profile.AvatarURL == "" || !strings.EqualFold(state.Profile.Login, login) {
		http.Error(w, "Avatar not found", http.StatusNotFound)
		return
	}

	data, contentType, err := h.avatars.Get(r.Context(), state.Profile.AvatarURL)
	if err != nil {
		h.logger.Warnw("failed to fetch avatar", "login", login, "error", err)
		http.Error(w, "Avatar unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		h.logger.Debugw("failed to write avatar", "login", login, "error", err)
	}
}
