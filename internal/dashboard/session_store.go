package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vilaca/gitinsight/internal/domain"
	"github.com/vilaca/gitinsight/internal/logger"
)

// SessionCookieName identifies a browser session.
const SessionCookieName = "gitinsight_session"

// QueryController is the per-session search state machine (service.QueryService).
type QueryController interface {
	Submit(query string) bool
	Retry() bool
	Snapshot() domain.QueryState
	Close()
}

// ControllerFactory creates the controller of a new session.
type ControllerFactory func() QueryController

// SessionStore keeps one QueryController per browser session.
// Sessions idle for longer than the TTL, or pushed out by newer ones,
// are evicted and closed in the background.
type SessionStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, QueryController]
	factory  ControllerFactory
	logger   logger.Logger

	closing sync.WaitGroup
}

// NewSessionStore creates a store holding at most maxSessions sessions.
func NewSessionStore(maxSessions int, ttl time.Duration, factory ControllerFactory, log logger.Logger) *SessionStore {
	s := &SessionStore{factory: factory, logger: log}
	s.sessions = expirable.NewLRU[string, QueryController](maxSessions, s.onEvict, ttl)
	return s
}

// Controller returns the caller's controller, creating a session (and
// setting its cookie) when the request carries none or an expired one.
// Only the dashboard page creates sessions; every new session starts a lookup.
func (s *SessionStore) Controller(w http.ResponseWriter, r *http.Request) QueryController {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := sessionID(r); ok {
		if c, found := s.sessions.Get(id); found {
			// Re-adding refreshes the idle TTL.
			s.sessions.Add(id, c)
			return c
		}
	}

	id := uuid.NewString()
	c := s.factory()
	s.sessions.Add(id, c)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debugw("session created", "session", id, "sessions", s.sessions.Len())
	return c
}

// Lookup returns the caller's controller without creating a session.
// A hit refreshes the session's idle TTL.
func (s *SessionStore) Lookup(r *http.Request) (QueryController, bool) {
	id, ok := sessionID(r)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, found := s.sessions.Get(id)
	if found {
		s.sessions.Add(id, c)
	}
	return c, found
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	return s.sessions.Len()
}

// Close evicts every session and waits until all evicted sessions,
// including earlier ones, have finished their background work.
func (s *SessionStore) Close() {
	s.sessions.Purge()
	s.closing.Wait()
}

// onEvict runs under the cache lock, so closing happens on its own goroutine.
func (s *SessionStore) onEvict(id string, c QueryController) {
	s.closing.Add(1)
	go func() {
		defer s.closing.Done()
		c.Close()
		s.logger.Debugw("session closed", "session", id)
	}()
}

func sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
