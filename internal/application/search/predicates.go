package search

import (
	"strings"

	"botsales-backend/internal/domain"
)

// Predicate reports whether a listing satisfies one filter dimension.
type Predicate func(domain.Listing) bool

// Predicates builds one predicate per constrained dimension of f. Status is always
// constrained: only active listings are eligible.
func Predicates(f domain.SearchFilters) []Predicate {
	ps := []Predicate{func(l domain.Listing) bool { return l.IsActive() }}

	if q := strings.ToLower(f.Query); q != "" {
		ps = append(ps, func(l domain.Listing) bool {
			return containsFold(l.Title, q) ||
				containsFold(l.Description, q) ||
				containsFold(l.Brand, q) ||
				containsFold(l.Model, q)
		})
	}
	if f.Category != "" {
		ps = append(ps, func(l domain.Listing) bool { return l.Category == f.Category })
	}
	if f.Brand != "" {
		ps = append(ps, func(l domain.Listing) bool { return strings.EqualFold(l.Brand, f.Brand) })
	}
	if f.MinPrice != nil {
		lo := *f.MinPrice
		ps = append(ps, func(l domain.Listing) bool { return l.Price >= lo })
	}
	if f.MaxPrice != nil {
		hi := *f.MaxPrice
		ps = append(ps, func(l domain.Listing) bool { return l.Price <= hi })
	}
	if len(f.Condition) > 0 {
		allowed := make(map[domain.Condition]struct{}, len(f.Condition))
		for _, c := range f.Condition {
			allowed[c] = struct{}{}
		}
		ps = append(ps, func(l domain.Listing) bool {
			_, ok := allowed[l.Condition]
			return ok
		})
	}
	if loc := strings.ToLower(f.Location); loc != "" {
		ps = append(ps, func(l domain.Listing) bool {
			return containsFold(l.Location.City, loc) || containsFold(l.Location.State, loc)
		})
	}
	return ps
}

// Matches reports whether l passes every predicate derived from f.
func Matches(l domain.Listing, f domain.SearchFilters) bool {
	for _, p := range Predicates(f) {
		if !p(l) {
			return false
		}
	}
	return true
}

// containsFold expects needle to be lower-cased already.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
