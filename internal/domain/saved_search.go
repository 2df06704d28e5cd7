package domain

import "time"

// SavedSearch is a named, frozen filter snapshot owned by one user.
type SavedSearch struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId"`
	Name        string        `json:"name"`
	Filters     SearchFilters `json:"filters"`
	EmailAlerts bool          `json:"emailAlerts"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (s SavedSearch) Clone() SavedSearch {
	out := s
	out.Filters = s.Filters.Clone()
	return out
}
