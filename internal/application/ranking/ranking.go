package ranking

import (
	"sort"

	"botsales-backend/internal/domain"
)

// Order returns a new slice sorted by sortBy. The input is not modified and ties
// keep their input order. An empty or unknown sortBy ranks by relevance.
func Order(listings []domain.Listing, sortBy domain.SortBy) []domain.Listing {
	out := make([]domain.Listing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, less(out, sortBy))
	return out
}

func less(ls []domain.Listing, sortBy domain.SortBy) func(i, j int) bool {
	switch sortBy {
	case domain.SortNewest:
		return func(i, j int) bool { return ls[i].CreatedAt.After(ls[j].CreatedAt) }
	case domain.SortOldest:
		return func(i, j int) bool { return ls[i].CreatedAt.Before(ls[j].CreatedAt) }
	case domain.SortPriceLow:
		return func(i, j int) bool { return ls[i].Price < ls[j].Price }
	case domain.SortPriceHigh:
		return func(i, j int) bool { return ls[i].Price > ls[j].Price }
	}
	// relevance: featured first, then most viewed
	return func(i, j int) bool {
		if ls[i].Featured != ls[j].Featured {
			return ls[i].Featured
		}
		return ls[i].Views > ls[j].Views
	}
}
