// Package stats derives the dashboard charts from a repository listing.
// All functions are pure and leave their input untouched.
package stats

import (
	"slices"

	"github.com/vilaca/gitinsight/internal/domain"
)

const (
	// MaxLanguages is the number of slices in the language chart.
	MaxLanguages = 6
	// MaxStarred is the number of bars in the stars chart.
	MaxStarred = 5
	// maxLabelRunes is the longest chart label shown unabridged.
	maxLabelRunes = 15
)

// Entry is one labelled value of a chart.
type Entry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// LanguageDistribution counts repositories per primary language, most used
// first. Repositories without a language are not counted; ties keep the order
// in which languages first appear in repos.
func LanguageDistribution(repos []domain.Repository) []Entry {
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		if r.Language == "" {
			continue
		}
		if _, seen := counts[r.Language]; !seen {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	entries := make([]Entry, 0, len(order))
	for _, lang := range order {
		entries = append(entries, Entry{Label: lang, Value: counts[lang]})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Value - a.Value
	})

	if len(entries) > MaxLanguages {
		entries = entries[:MaxLanguages]
	}
	return entries
}

// StarRanking returns the MaxStarred most starred repositories with
// zero-star entries removed afterwards, so it may hold fewer than
// MaxStarred entries even when more starred repositories exist further down.
func StarRanking(repos []domain.Repository) []Entry {
	top := TopByStars(repos, MaxStarred)

	entries := make([]Entry, 0, len(top))
	for _, r := range top {
		if r.Stars > 0 {
			entries = append(entries, Entry{Label: r.Name, Value: r.Stars})
		}
	}
	return entries
}

// TopByStars returns up to n repositories ordered by star count, descending.
// Repositories with equal stars keep their relative order.
func TopByStars(repos []domain.Repository, n int) []domain.Repository {
	sorted := slices.Clone(repos)
	slices.SortStableFunc(sorted, func(a, b domain.Repository) int {
		return b.Stars - a.Stars
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// DistinctLanguages lists every primary language in repos once, in first-seen order.
func DistinctLanguages(repos []domain.Repository) []string {
	seen := make(map[string]bool)
	languages := []string{}
	for _, r := range repos {
		if r.Language == "" || seen[r.Language] {
			continue
		}
		seen[r.Language] = true
		languages = append(languages, r.Language)
	}
	return languages
}

// Totals sums stars and forks across repos.
func Totals(repos []domain.Repository) (stars, forks int) {
	for _, r := range repos {
		stars += r.Stars
		forks += r.Forks
	}
	return stars, forks
}

// ShortLabel abbreviates long repository names for chart axes.
func ShortLabel(name string) string {
	runes := []rune(name)
	if len(runes) > maxLabelRunes {
		return string(runes[:12]) + "..."
	}
	return name
}
