package dashboard

import (
	"html/template"
	"strings"
	"time"

	"github.com/vilaca/gitinsight/internal/stats"
)

// chartPalette colours the language chart, cycling when exhausted.
var chartPalette = []string{"#58a6ff", "#3fb950", "#d29922", "#a371f7", "#f85149", "#8b949e"}

// templateFuncs are the helpers available to the dashboard template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"shortLabel": stats.ShortLabel,
		"color":      paletteColor,
		"percent":    percentOf,
		"maxValue":   maxValue,
		"blogHref":   blogHref,
		"formatDate": formatDate,
	}
}

func paletteColor(i int) string {
	return chartPalette[i%len(chartPalette)]
}

// percentOf returns value as a whole percentage of max, at least 1 for non-zero values.
func percentOf(value, max int) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	p := value * 100 / max
	if p == 0 {
		p = 1
	}
	return p
}

func maxValue(entries []stats.Entry) int {
	max := 0
	for _, e := range entries {
		if e.Value > max {
			max = e.Value
		}
	}
	return max
}

// blogHref turns the free-form blog field into a link.
func blogHref(blog string) string {
	if strings.HasPrefix(blog, "http") {
		return blog
	}
	return "https://" + blog
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// commonCSS is the dashboard stylesheet (GitHub dark palette).
const commonCSS = `<style>
		:root {
			--bg-dark: #0d1117;
			--bg-darker: #010409;
			--bg-btn: #21262d;
			--border: #30363d;
			--text: #c9d1d9;
			--muted: #8b949e;
			--accent: #58a6ff;
			--danger: #f85149;
			--ai: #a371f7;
		}
		* { box-sizing: border-box; }
		body { font-family: system-ui, -apple-system, sans-serif; margin: 0; background: var(--bg-dark); color: var(--text); }
		a { color: var(--accent); text-decoration: none; }
		a:hover { text-decoration: underline; }
		header { position: sticky; top: 0; background: rgba(13,17,23,0.9); border-bottom: 1px solid var(--border); padding: 16px 24px; display: flex; justify-content: space-between; align-items: center; gap: 16px; flex-wrap: wrap; }
		header h1 { margin: 0; font-size: 20px; color: white; }
		header form { display: flex; gap: 8px; }
		input[type=text] { background: var(--bg-darker); border: 1px solid var(--border); border-radius: 6px; padding: 8px 12px; color: white; width: 280px; }
		button { background: var(--bg-btn); border: 1px solid var(--border); border-radius: 6px; padding: 8px 16px; color: white; cursor: pointer; }
		main { max-width: 1280px; margin: 0 auto; padding: 32px 24px; }
		.layout { display: grid; grid-template-columns: 280px 1fr; gap: 32px; }
		@media (max-width: 900px) { .layout { grid-template-columns: 1fr; } }
		.avatar { width: 100%; max-width: 260px; border-radius: 50%; border: 4px solid var(--border); }
		.muted { color: var(--muted); }
		.card { background: var(--bg-darker); border: 1px solid var(--border); border-radius: 12px; padding: 20px; margin-bottom: 24px; }
		.ai { border-color: rgba(163,113,247,0.4); }
		.ai h3 { color: var(--ai); margin-top: 0; }
		.chip { display: inline-block; padding: 4px 10px; border-radius: 999px; font-size: 12px; background: rgba(163,113,247,0.1); color: #d2a8ff; border: 1px solid rgba(163,113,247,0.2); margin: 0 6px 6px 0; }
		.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 24px; }
		@media (max-width: 900px) { .charts { grid-template-columns: 1fr; } }
		.bar-row { display: grid; grid-template-columns: 110px 1fr 60px; gap: 8px; align-items: center; font-size: 12px; margin-bottom: 8px; }
		.bar { height: 14px; border-radius: 0 4px 4px 0; }
		.repos { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
		@media (max-width: 900px) { .repos { grid-template-columns: 1fr; } }
		.repo { background: var(--bg-btn); border: 1px solid var(--border); border-radius: 8px; padding: 16px; }
		.repo .meta { display: flex; gap: 16px; font-size: 12px; color: var(--muted); margin-top: 12px; }
		.badge { font-size: 12px; border: 1px solid var(--border); border-radius: 999px; padding: 2px 8px; color: var(--muted); }
		.error { max-width: 520px; margin: 48px auto; text-align: center; border-color: rgba(248,81,73,0.3); }
		.center { text-align: center; padding: 64px 0; }
	</style>`
