package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vilaca/gitinsight/internal/api"
	"github.com/vilaca/gitinsight/internal/domain"
	"github.com/vilaca/gitinsight/internal/logger"
)

// genericErrorMessage is shown for failures that carry no classified message.
const genericErrorMessage = "An error occurred"

// Analyzer produces the enrichment of a ready lookup. It must not fail.
type Analyzer interface {
	Analyze(ctx context.Context, profile domain.Profile, repos []domain.Repository) domain.Enrichment
}

// QueryService owns the state of one search lifecycle: a required lookup
// (profile, then repositories) followed by a best-effort background analysis.
//
// Only one query is active at a time. Every result is committed only if the
// query that produced it is still the current one; late results of a
// superseded query are dropped.
type QueryService struct {
	client   api.Client
	analyzer Analyzer
	logger   logger.Logger

	mu     sync.Mutex
	state  domain.QueryState
	cancel context.CancelFunc
	closed bool

	wg sync.WaitGroup
}

// NewQueryService creates an idle QueryService.
func NewQueryService(client api.Client, analyzer Analyzer, log logger.Logger) *QueryService {
	return &QueryService{
		client:   client,
		analyzer: analyzer,
		logger:   log,
		state:    domain.NewQueryState(),
	}
}

// Submit starts a lookup for query. Blank queries are ignored and false is returned.
// Starting a lookup discards every result of the previous one.
func (s *QueryService) Submit(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	generation := s.state.Generation + 1
	s.state = domain.QueryState{
		Generation:      generation,
		Query:           query,
		Phase:           domain.PhaseLoading,
		EnrichmentPhase: domain.EnrichmentNone,
	}

	s.logger.Infow("query submitted", "query", query, "generation", generation)

	s.wg.Add(1)
	go s.lookup(ctx, generation, query)
	return true
}

// Retry re-runs the current query after a failure. It is a no-op in any other phase.
func (s *QueryService) Retry() bool {
	s.mu.Lock()
	phase, query := s.state.Phase, s.state.Query
	s.mu.Unlock()

	if phase != domain.PhaseFailed {
		return false
	}
	return s.Submit(query)
}

// Snapshot returns a copy of the current state.
func (s *QueryService) Snapshot() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Cancel aborts in-flight requests of the current query without waiting.
// Results of the aborted requests are dropped, so the state is left as is;
// a later Submit still works.
func (s *QueryService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until every lookup and analysis started so far has finished.
func (s *QueryService) Wait() {
	s.wg.Wait()
}

// Close cancels the current query, rejects further submissions and waits
// for background work to finish.
func (s *QueryService) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// lookup runs the required phase. Repositories are only requested once the
// profile is known, and the analysis only starts once both are committed.
func (s *QueryService) lookup(ctx context.Context, generation uint64, query string) {
	defer s.wg.Done()

	profile, err := s.client.FetchProfile(ctx, query)
	if err != nil {
		s.fail(ctx, generation, query, err)
		return
	}

	repos, err := s.client.FetchRepositories(ctx, query)
	if err != nil {
		s.fail(ctx, generation, query, err)
		return
	}

	committed := s.commit(ctx, generation, func(st *domain.QueryState) {
		st.Phase = domain.PhaseReady
		st.Profile = profile
		st.Repositories = repos
		st.EnrichmentPhase = domain.EnrichmentPending
	})
	if !committed {
		return
	}

	s.logger.Infow("query ready", "query", query, "generation", generation, "repositories", len(repos))

	s.wg.Add(1)
	go s.enrich(ctx, generation, *profile, repos)
}

// enrich runs the optional phase. It always ends in EnrichmentDone because
// the analyzer answers with a fallback instead of failing.
func (s *QueryService) enrich(ctx context.Context, generation uint64, profile domain.Profile, repos []domain.Repository) {
	defer s.wg.Done()

	result := s.analyzer.Analyze(ctx, profile, repos)

	s.commit(ctx, generation, func(st *domain.QueryState) {
		st.EnrichmentPhase = domain.EnrichmentDone
		st.Enrichment = &result
	})
}

func (s *QueryService) fail(ctx context.Context, generation uint64, query string, err error) {
	message := genericErrorMessage
	kind := ""
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		message = apiErr.Message
		kind = string(apiErr.Kind)
	}

	committed := s.commit(ctx, generation, func(st *domain.QueryState) {
		st.Phase = domain.PhaseFailed
		st.Profile = nil
		st.Repositories = nil
		st.Error = message
		st.ErrorKind = kind
	})
	if committed {
		s.logger.Warnw("query failed", "query", query, "generation", generation, "kind", kind, "error", err)
	}
}

// commit applies fn if generation is still current and its query was not
// cancelled. It reports whether fn ran.
func (s *QueryService) commit(ctx context.Context, generation uint64, fn func(*domain.QueryState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state.Generation != generation {
		s.logger.Debugw("discarding stale result", "generation", generation, "current", s.state.Generation)
		return false
	}
	if ctx.Err() != nil {
		s.logger.Debugw("discarding cancelled result", "generation", generation, "error", ctx.Err())
		return false
	}

	fn(&s.state)
	return true
}
