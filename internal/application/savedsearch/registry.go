package savedsearch

import (
	"strings"
	"sync"
	"time"

	"botsales-backend/internal/application/search"
	"botsales-backend/internal/domain"

	"github.com/google/uuid"
)

const DefaultName = "New Alert"

// Searcher runs filters against the current catalogue.
type Searcher interface {
	Search(domain.SearchFilters) []domain.Listing
}

// Registry keeps each user's saved searches, newest first.
type Registry struct {
	mu      sync.RWMutex
	byOwner map[string][]*domain.SavedSearch

	now   func() time.Time
	newID func() string
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byOwner: make(map[string][]*domain.SavedSearch),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add stores a frozen copy of filters. Later changes to the caller's filters do not
// affect the saved search.
func (r *Registry) Add(ownerID, name string, filters domain.SearchFilters, emailAlerts bool) domain.SavedSearch {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	s := &domain.SavedSearch{
		ID:          r.newID(),
		OwnerID:     ownerID,
		Name:        name,
		Filters:     filters.Clone(),
		EmailAlerts: emailAlerts,
		CreatedAt:   r.now(),
	}
	r.mu.Lock()
	r.byOwner[ownerID] = append([]*domain.SavedSearch{s}, r.byOwner[ownerID]...)
	r.mu.Unlock()
	return s.Clone()
}

// Remove deletes the saved search; it reports false when there was nothing to remove.
func (r *Registry) Remove(ownerID, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byOwner[ownerID]
	for i, s := range list {
		if s.ID == id {
			r.byOwner[ownerID] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleEmailAlerts flips the alert flag. Unknown ids are ignored.
func (r *Registry) ToggleEmailAlerts(ownerID, id string) (domain.SavedSearch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byOwner[ownerID] {
		if s.ID == id {
			s.EmailAlerts = !s.EmailAlerts
			return s.Clone(), true
		}
	}
	return domain.SavedSearch{}, false
}

func (r *Registry) List(ownerID string) []domain.SavedSearch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SavedSearch, 0, len(r.byOwner[ownerID]))
	for _, s := range r.byOwner[ownerID] {
		out = append(out, s.Clone())
	}
	return out
}

func (r *Registry) Get(ownerID, id string) (domain.SavedSearch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.byOwner[ownerID] {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return domain.SavedSearch{}, false
}

// Replay runs the saved filters against the live catalogue.
func (r *Registry) Replay(ownerID, id string, engine Searcher) ([]domain.Listing, error) {
	s, ok := r.Get(ownerID, id)
	if !ok {
		return nil, domain.ErrSavedSearchNotFound
	}
	return engine.Search(s.Filters), nil
}

// AlertsFor returns every alert-enabled saved search that l satisfies. A seller is
// never alerted about their own listing.
func (r *Registry) AlertsFor(l domain.Listing) []domain.SavedSearch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.SavedSearch
	for owner, list := range r.byOwner {
		if owner == l.SellerID {
			continue
		}
		for _, s := range list {
			if s.EmailAlerts && search.Matches(l, s.Filters) {
				out = append(out, s.Clone())
			}
		}
	}
	return out
}
