package dashboard

import (
	"encoding/json"
	"html/template"
	"io"

	"github.com/vilaca/gitinsight/internal/domain"
	"github.com/vilaca/gitinsight/internal/stats"
)

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderDashboard(w io.Writer, page Page) error
	RenderHealth(w io.Writer) error
	RenderState(w io.Writer, state domain.QueryState) error
}

// Page is everything the dashboard template needs for one render.
type Page struct {
	State      domain.QueryState
	Languages  []stats.Entry
	Stars      []stats.Entry
	TotalStars int
	TotalForks int
	// Refresh is set while a phase is still in progress so the page reloads itself.
	Refresh bool
}

// NewPage derives the charts of state. Derivation is cheap and done on every render.
func NewPage(state domain.QueryState) Page {
	page := Page{
		State:   state,
		Refresh: state.Phase == domain.PhaseLoading || state.EnrichmentPhase == domain.EnrichmentPending,
	}
	if state.Phase == domain.PhaseReady {
		page.Languages = stats.LanguageDistribution(state.Repositories)
		page.Stars = stats.StarRanking(state.Repositories)
		page.TotalStars, page.TotalForks = stats.Totals(state.Repositories)
	}
	return page
}

// HTMLRenderer implements Renderer with html/template.
type HTMLRenderer struct {
	dashboard *template.Template
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		dashboard: template.Must(template.New("dashboard").Funcs(templateFuncs()).Parse(dashboardTemplate)),
	}
}

func (r *HTMLRenderer) RenderDashboard(w io.Writer, page Page) error {
	return r.dashboard.Execute(w, struct {
		Page
		CSS template.HTML
	}{Page: page, CSS: template.HTML(commonCSS)})
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (r *HTMLRenderer) RenderState(w io.Writer, state domain.QueryState) error {
	return json.NewEncoder(w).Encode(state)
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	{{if .Refresh}}<meta http-equiv="refresh" content="2">{{end}}
	<title>{{if .State.Query}}{{.State.Query}} - {{end}}GitInsight</title>
	{{.CSS}}
</head>
<body>
	<header>
		<h1>GitInsight</h1>
		<form method="post" action="/search">
			<input type="text" name="username" placeholder="Search username (e.g., torvalds)" value="{{.State.Query}}">
			<button type="submit">Search</button>
		</form>
	</header>
	<main>
	{{- $s := .State}}
	{{- if eq $s.Phase "loading"}}
		<div class="center">
			<p class="muted">Fetching GitHub data...</p>
		</div>
	{{- else if eq $s.Phase "failed"}}
		<div class="card error">
			<h2>Connection Issue</h2>
			<p class="muted">{{$s.Error}}</p>
			<form method="post" action="/retry"><button type="submit">Try Again</button></form>
		</div>
	{{- else if eq $s.Phase "ready"}}
		{{- $p := $s.Profile}}
		<div class="layout">
			<aside>
				<img class="avatar" src="/api/avatar/{{$p.Login}}" alt="{{$p.Login}}">
				<h2>{{$p.DisplayName}}</h2>
				<a href="{{$p.WebURL}}" target="_blank" rel="noopener noreferrer">{{$p.Login}}</a>
				{{if $p.Bio}}<p>{{$p.Bio}}</p>{{end}}
				<p><strong>{{$p.Followers}}</strong> <span class="muted">followers</span> · <strong>{{$p.Following}}</strong> <span class="muted">following</span></p>
				{{if $p.Company}}<p>{{$p.Company}}</p>{{end}}
				{{if $p.Location}}<p>{{$p.Location}}</p>{{end}}
				{{if $p.Blog}}<p><a href="{{blogHref $p.Blog}}" target="_blank" rel="noopener noreferrer">{{$p.Blog}}</a></p>{{end}}
				{{if $p.TwitterUsername}}<p><a href="https://twitter.com/{{$p.TwitterUsername}}" target="_blank" rel="noopener noreferrer">@{{$p.TwitterUsername}}</a></p>{{end}}
				{{if $p.Email}}<p><a href="mailto:{{$p.Email}}">{{$p.Email}}</a></p>{{end}}
			</aside>
			<section>
				{{- if eq $s.EnrichmentPhase "pending"}}
				<div class="card ai"><h3>Gemini is analyzing profile...</h3></div>
				{{- else if $s.Enrichment}}
				<div class="card ai">
					<h3>AI Profile Analysis</h3>
					<h4 class="muted">Professional Summary</h4>
					<p>{{$s.Enrichment.ProfessionalSummary}}</p>
					<h4 class="muted">Core Strengths</h4>
					<div>{{range $s.Enrichment.TopSkills}}<span class="chip">{{.}}</span>{{end}}</div>
					<h4 class="muted">Suggested Roles</h4>
					<ul>{{range $s.Enrichment.SuggestedRoles}}<li>{{.}}</li>{{end}}</ul>
					<p class="muted"><em>Fun Fact: {{$s.Enrichment.FunFact}}</em></p>
				</div>
				{{- end}}

				{{- if $s.Repositories}}
				<div class="charts">
					<div class="card">
						<h3>Language Distribution</h3>
						{{- $max := maxValue .Languages}}
						{{- range $i, $e := .Languages}}
						<div class="bar-row"><span>{{$e.Label}}</span><div class="bar" style="width: {{percent $e.Value $max}}%; background: {{color $i}}"></div><span>{{$e.Value}}</span></div>
						{{- else}}
						<p class="muted">No language data available</p>
						{{- end}}
					</div>
					<div class="card">
						<h3>Most Starred Repositories</h3>
						{{- $max := maxValue .Stars}}
						{{- range .Stars}}
						<div class="bar-row"><span title="{{.Label}}">{{shortLabel .Label}}</span><div class="bar" style="width: {{percent .Value $max}}%; background: #58a6ff"></div><span>{{.Value}}</span></div>
						{{- else}}
						<p class="muted">No stars yet</p>
						{{- end}}
					</div>
				</div>
				{{- end}}

				<h2>Repositories <span class="badge">{{$p.PublicRepos}}</span></h2>
				<p class="muted">{{.TotalStars}} stars · {{.TotalForks}} forks across the listed repositories</p>
				{{- if $s.Repositories}}
				<div class="repos">
					{{- range $s.Repositories}}
					<div class="repo">
						<a href="{{.WebURL}}" target="_blank" rel="noopener noreferrer"><strong>{{.Name}}</strong></a>
						<span class="badge">{{.Visibility}}</span>
						<p class="muted">{{if .Description}}{{.Description}}{{else}}No description provided.{{end}}</p>
						<div class="meta">
							{{if .Language}}<span>{{.Language}}</span>{{end}}
							<span>★ {{.Stars}}</span>
							<span>⑂ {{.Forks}}</span>
							<span>{{formatDate .UpdatedAt}}</span>
						</div>
					</div>
					{{- end}}
				</div>
				{{- else}}
				<div class="card center muted">User has no public repositories.</div>
				{{- end}}
			</section>
		</div>
	{{- else}}
		<div class="center muted">
			<p>Search for a GitHub user to get started.</p>
		</div>
	{{- end}}
	</main>
</body>
</html>`
