package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vilaca/gitinsight/internal/domain"
)

func renderDashboard(t *testing.T, state domain.QueryState) string {
	t.Helper()
	if err := state.Validate(); err != nil {
		t.Fatalf("test state is invalid: %v", err)
	}

	buf := &bytes.Buffer{}
	if err := NewHTMLRenderer().RenderDashboard(buf, NewPage(state)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return buf.String()
}

func sampleRepositories() []domain.Repository {
	return []domain.Repository{
		{ID: 1, Name: "linux", Language: "C", Stars: 170000, Forks: 52000, WebURL: "https://github.com/torvalds/linux", UpdatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "subsurface-for-dirk", Description: "Do not use", Language: "C++", Stars: 300, Forks: 80},
		{ID: 3, Name: "test-tlb", Language: "C", Stars: 0, Private: true},
	}
}

// TestHTMLRenderer_RenderDashboard_Idle tests the empty state.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestHTMLRenderer_RenderDashboard_Idle(t *testing.T) {
	// Arrange
	state := domain.NewQueryState()

	// Act
	output := renderDashboard(t, state)

	// Assert
	if !strings.Contains(output, "<!DOCTYPE html>") {
		t.Errorf("expected output to contain '<!DOCTYPE html>', got %q", output)
	}
	if !strings.Contains(output, "Search for a GitHub user to get started.") {
		t.Error("expected empty state prompt")
	}
	if strings.Contains(output, `http-equiv="refresh"`) {
		t.Error("idle page must not auto-refresh")
	}
}

func TestHTMLRenderer_RenderDashboard_Loading(t *testing.T) {
	// Arrange
	state := domain.QueryState{Generation: 3, Query: "torvalds", Phase: domain.PhaseLoading, EnrichmentPhase: domain.EnrichmentNone}

	// Act
	output := renderDashboard(t, state)

	// Assert
	if !strings.Contains(output, "Fetching GitHub data...") {
		t.Error("expected loading indicator")
	}
	if !strings.Contains(output, `http-equiv="refresh"`) {
		t.Error("loading page must auto-refresh")
	}
	if !strings.Contains(output, `value="torvalds"`) {
		t.Error("expected search box to keep the query")
	}
}

func TestHTMLRenderer_RenderDashboard_Failed(t *testing.T) {
	// Arrange
	state := domain.QueryState{
		Generation:      1,
		Query:           "ghost",
		Phase:           domain.PhaseFailed,
		EnrichmentPhase: domain.EnrichmentNone,
		Error:           "User not found. Please check the username and try again.",
		ErrorKind:       "not_found",
	}

	// Act
	output := renderDashboard(t, state)

	// Assert
	if !strings.Contains(output, "User not found. Please check the username and try again.") {
		t.Error("expected error message")
	}
	if !strings.Contains(output, `action="/retry"`) || !strings.Contains(output, "Try Again") {
		t.Error("expected retry form")
	}
}

func TestHTMLRenderer_RenderDashboard_ReadyWithPendingEnrichment(t *testing.T) {
	// Arrange
	state := domain.QueryState{
		Generation:      1,
		Query:           "torvalds",
		Phase:           domain.PhaseReady,
		Profile:         &domain.Profile{Login: "torvalds", Name: "Linus Torvalds", Followers: 200000, PublicRepos: 3, Bio: "<script>alert(1)</script>", Blog: "kernel.org"},
		Repositories:    sampleRepositories(),
		EnrichmentPhase: domain.EnrichmentPending,
	}

	// Act
	output := renderDashboard(t, state)

	// Assert
	checks := []string{
		"Linus Torvalds",
		"Gemini is analyzing profile...",
		`src="/api/avatar/torvalds"`,
		`href="https://kernel.org"`,
		"Language Distribution",
		"Most Starred Repositories",
		"subsurface-f...",
		"Do not use",
		"No description provided.",
		"Private",
		"Mar 5, 2024",
		"170300 stars",
		"&lt;script&gt;",
	}
	for _, want := range checks {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(output, "<script>alert(1)</script>") {
		t.Error("bio must be escaped")
	}
	if !strings.Contains(output, `http-equiv="refresh"`) {
		t.Error("pending enrichment must auto-refresh")
	}
}

func TestHTMLRenderer_RenderDashboard_ReadyWithEnrichment(t *testing.T) {
	// Arrange
	enrichment := domain.Enrichment{
		ProfessionalSummary: "Kernel maintainer.",
		TopSkills:           []string{"C", "Git"},
		SuggestedRoles:      []string{"Principal Engineer"},
		FunFact:             "Wrote Git in two weeks.",
	}
	state := domain.QueryState{
		Generation:      1,
		Query:           "torvalds",
		Phase:           domain.PhaseReady,
		Profile:         &domain.Profile{Login: "torvalds"},
		Repositories:    []domain.Repository{},
		EnrichmentPhase: domain.EnrichmentDone,
		Enrichment:      &enrichment,
	}

	// Act
	output := renderDashboard(t, state)

	// Assert
	for _, want := range []string{"Kernel maintainer.", `<span class="chip">Git</span>`, "<li>Principal Engineer</li>", "Fun Fact: Wrote Git in two weeks.", "User has no public repositories."} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(output, "Gemini is analyzing profile...") {
		t.Error("analysis is done")
	}
	if strings.Contains(output, "Language Distribution") {
		t.Error("charts are hidden without repositories")
	}
	if strings.Contains(output, `http-equiv="refresh"`) {
		t.Error("settled page must not auto-refresh")
	}
}

func TestNewPage(t *testing.T) {
	// Arrange
	state := domain.QueryState{
		Generation:      1,
		Query:           "torvalds",
		Phase:           domain.PhaseReady,
		Profile:         &domain.Profile{Login: "torvalds"},
		Repositories:    sampleRepositories(),
		EnrichmentPhase: domain.EnrichmentPending,
	}

	// Act
	page := NewPage(state)

	// Assert
	if len(page.Languages) != 2 || page.Languages[0].Label != "C" || page.Languages[0].Value != 2 {
		t.Errorf("unexpected languages: %+v", page.Languages)
	}
	if len(page.Stars) != 2 {
		t.Errorf("zero-star repositories must be dropped, got %+v", page.Stars)
	}
	if page.TotalStars != 170300 || page.TotalForks != 52080 {
		t.Errorf("unexpected totals: %d stars, %d forks", page.TotalStars, page.TotalForks)
	}
	if !page.Refresh {
		t.Error("expected refresh while enrichment is pending")
	}
}

func TestTemplateHelpers(t *testing.T) {
	if got := percentOf(1, 1000); got != 1 {
		t.Errorf("percentOf(1, 1000) = %d, want 1", got)
	}
	if got := percentOf(50, 200); got != 25 {
		t.Errorf("percentOf(50, 200) = %d, want 25", got)
	}
	if got := percentOf(5, 0); got != 0 {
		t.Errorf("percentOf(5, 0) = %d, want 0", got)
	}
	if got := blogHref("http://example.com"); got != "http://example.com" {
		t.Errorf("blogHref kept scheme wrong: %q", got)
	}
	if got := blogHref("example.com"); got != "https://example.com" {
		t.Errorf("blogHref(example.com) = %q", got)
	}
	if got := paletteColor(len(chartPalette)); got != chartPalette[0] {
		t.Errorf("palette must cycle, got %q", got)
	}
	if got := formatDate(time.Time{}); got != "" {
		t.Errorf("zero date must be blank, got %q", got)
	}
}

// TestHTMLRenderer_RenderHealth tests the health check rendering.
func TestHTMLRenderer_RenderHealth(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer()
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderHealth(buf)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := `{"status":"ok"}`
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestHTMLRenderer_RenderState(t *testing.T) {
	// Arrange
	renderer := NewHTMLRenderer()
	buf := &bytes.Buffer{}

	// Act
	err := renderer.RenderState(buf, domain.NewQueryState())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), `"phase":"idle"`) {
		t.Errorf("unexpected state JSON %q", buf.String())
	}
}
