package search

import (
	"strings"
	"unicode/utf8"

	"botsales-backend/internal/application/ranking"
	"botsales-backend/internal/domain"
)

const (
	minSuggestLen   = 2
	maxBrandHits    = 5
	maxModelHits    = 5
	maxSuggestions  = 8
	SuggestionBrand = "brand"
	SuggestionModel = "model"
)

// ListingSource is the read side of the entity store.
type ListingSource interface {
	Listings() []domain.Listing
}

// Engine evaluates search filters against a listing source. It never writes.
type Engine struct {
	Source ListingSource
}

func NewEngine(src ListingSource) *Engine {
	return &Engine{Source: src}
}

// Search returns the active listings matching f, ordered by f.SortBy.
func (e *Engine) Search(f domain.SearchFilters) []domain.Listing {
	return ranking.Order(e.filter(f), f.SortBy)
}

// Count returns how many listings Search would return for f.
func (e *Engine) Count(f domain.SearchFilters) int {
	return len(e.filter(f))
}

func (e *Engine) filter(f domain.SearchFilters) []domain.Listing {
	ps := Predicates(f)
	out := make([]domain.Listing, 0)
next:
	for _, l := range e.Source.Listings() {
		for _, p := range ps {
			if !p(l) {
				continue next
			}
		}
		out = append(out, l)
	}
	return out
}

type Suggestion struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Suggest returns autocomplete hints for a partial query: matching brands first,
// then "brand model" pairs whose model or title contains q.
func (e *Engine) Suggest(q string) []Suggestion {
	q = strings.TrimSpace(q)
	out := make([]Suggestion, 0)
	if utf8.RuneCountInString(q) < minSuggestLen {
		return out
	}
	needle := strings.ToLower(q)

	var brands, models []string
	seenBrand := map[string]bool{}
	seenModel := map[string]bool{}
	for _, l := range e.Source.Listings() {
		if !l.IsActive() {
			continue
		}
		if l.Brand != "" && len(brands) < maxBrandHits && containsFold(l.Brand, needle) && !seenBrand[l.Brand] {
			seenBrand[l.Brand] = true
			brands = append(brands, l.Brand)
		}
		if l.Model != "" && len(models) < maxModelHits && (containsFold(l.Model, needle) || containsFold(l.Title, needle)) {
			text := l.Model
			if l.Brand != "" {
				text = l.Brand + " " + l.Model
			}
			if !seenModel[text] {
				seenModel[text] = true
				models = append(models, text)
			}
		}
	}
	for _, b := range brands {
		out = append(out, Suggestion{Type: SuggestionBrand, Text: b})
	}
	for _, m := range models {
		out = append(out, Suggestion{Type: SuggestionModel, Text: m})
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
