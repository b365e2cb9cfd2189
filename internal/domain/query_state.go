package domain

import "fmt"

// Phase is the lifecycle of the primary lookup.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// EnrichmentPhase is the lifecycle of the background analysis.
// It only leaves EnrichmentNone once the lookup is ready.
type EnrichmentPhase string

const (
	EnrichmentNone    EnrichmentPhase = "none"
	EnrichmentPending EnrichmentPhase = "pending"
	EnrichmentDone    EnrichmentPhase = "done"
)

// QueryState is the single-slot state of one search lifecycle.
// Generation identifies the query that produced the state; results carrying
// an older generation are stale.
type QueryState struct {
	Generation      uint64          `json:"generation"`
	Query           string          `json:"query"`
	Phase           Phase           `json:"phase"`
	Profile         *Profile        `json:"profile,omitempty"`
	Repositories    []Repository    `json:"repositories,omitempty"`
	EnrichmentPhase EnrichmentPhase `json:"enrichmentPhase"`
	Enrichment      *Enrichment     `json:"enrichment,omitempty"`
	Error           string          `json:"error,omitempty"`
	ErrorKind       string          `json:"errorKind,omitempty"`
}

// NewQueryState returns the idle state.
func NewQueryState() QueryState {
	return QueryState{Phase: PhaseIdle, EnrichmentPhase: EnrichmentNone}
}

// Validate reports whether exactly one of loading, failed or ready
// describes the state, and whether the enrichment phase is consistent with it.
func (s QueryState) Validate() error {
	switch s.Phase {
	case PhaseIdle:
		if s.Profile != nil || s.Error != "" {
			return fmt.Errorf("idle state carries data")
		}
	case PhaseLoading:
		if s.Profile != nil || s.Error != "" {
			return fmt.Errorf("loading state carries a profile or an error")
		}
	case PhaseFailed:
		if s.Error == "" {
			return fmt.Errorf("failed state has no error message")
		}
		if s.Profile != nil {
			return fmt.Errorf("failed state carries a profile")
		}
	case PhaseReady:
		if s.Profile == nil {
			return fmt.Errorf("ready state has no profile")
		}
		if s.Error != "" {
			return fmt.Errorf("ready state carries an error")
		}
	default:
		return fmt.Errorf("unknown phase %q", s.Phase)
	}

	if s.Phase != PhaseReady && s.EnrichmentPhase != EnrichmentNone {
		return fmt.Errorf("enrichment %s outside ready phase", s.EnrichmentPhase)
	}
	if s.EnrichmentPhase == EnrichmentDone && s.Enrichment == nil {
		return fmt.Errorf("enrichment done without a result")
	}
	return nil
}

// Clone returns a deep copy so callers can read it without holding locks.
func (s QueryState) Clone() QueryState {
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	if s.Repositories != nil {
		repos := make([]Repository, len(s.Repositories))
		for i, r := range s.Repositories {
			r.Topics = append([]string(nil), r.Topics...)
			repos[i] = r
		}
		s.Repositories = repos
	}
	if s.Enrichment != nil {
		e := s.Enrichment.Clone()
		s.Enrichment = &e
	}
	return s
}
