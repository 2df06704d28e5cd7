package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"botsales-backend/internal/domain"

	"github.com/google/uuid"
)

// Store holds listings, users and the favorites relation in memory.
// Every read hands out a deep copy.
type Store struct {
	mu sync.RWMutex

	listings     []*domain.Listing
	listingIndex map[string]*domain.Listing
	users        []*domain.User
	userIndex    map[string]*domain.User
	emailIndex   map[string]string
	favorites    map[string][]string

	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(opts ...Option) *Store {
	s := &Store{
		listingIndex: make(map[string]*domain.Listing),
		userIndex:    make(map[string]*domain.User),
		emailIndex:   make(map[string]string),
		favorites:    make(map[string][]string),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now exposes the store clock so services stamp entities consistently.
func (s *Store) Now() time.Time {
	return s.now()
}

// NewID returns a fresh identifier from the configured generator.
func (s *Store) NewID() string {
	return s.newID()
}

// Seed replaces all state. The given order becomes the store order. Duplicate user
// ids, emails (ignoring case) or listing ids are rejected and leave the store untouched.
func (s *Store) Seed(users []domain.User, listings []domain.Listing) error {
	if err := checkSeed(users, listings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = make([]*domain.Listing, 0, len(listings))
	s.listingIndex = make(map[string]*domain.Listing, len(listings))
	s.users = make([]*domain.User, 0, len(users))
	s.userIndex = make(map[string]*domain.User, len(users))
	s.emailIndex = make(map[string]string, len(users))
	s.favorites = make(map[string][]string)

	for _, u := range users {
		cp := u
		s.users = append(s.users, &cp)
		s.userIndex[cp.ID] = &cp
		s.emailIndex[emailKey(cp.Email)] = cp.ID
	}
	for _, l := range listings {
		cp := l.Clone()
		s.listings = append(s.listings, &cp)
		s.listingIndex[cp.ID] = &cp
	}
	return nil
}

func checkSeed(users []domain.User, listings []domain.Listing) error {
	ids := make(map[string]bool, len(users))
	emails := make(map[string]bool, len(users))
	for _, u := range users {
		if ids[u.ID] {
			return fmt.Errorf("%w: duplicate user id %q in seed", domain.ErrValidation, u.ID)
		}
		ids[u.ID] = true
		key := emailKey(u.Email)
		if emails[key] {
			return fmt.Errorf("%w: duplicate email %q in seed", domain.ErrEmailTaken, u.Email)
		}
		emails[key] = true
	}
	seen := make(map[string]bool, len(listings))
	for _, l := range listings {
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate listing id %q in seed", domain.ErrValidation, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// AddListing stores a new listing at the front of the store order. ID, counters
// and timestamps are assigned here.
func (s *Store) AddListing(l domain.Listing) domain.Listing {
	cp := l.Clone()
	now := s.now()
	cp.ID = s.newID()
	cp.Views = 0
	cp.Favorites = 0
	cp.CreatedAt = now
	cp.UpdatedAt = now

	s.mu.Lock()
	s.listings = append([]*domain.Listing{&cp}, s.listings...)
	s.listingIndex[cp.ID] = &cp
	s.mu.Unlock()

	return cp.Clone()
}

func (s *Store) GetListing(id string) (domain.Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listingIndex[id]
	if !ok {
		return domain.Listing{}, false
	}
	return l.Clone(), true
}

// UpdateListing applies fn to the stored listing under the write lock. ID, seller,
// counters and CreatedAt cannot be changed through fn.
func (s *Store) UpdateListing(id string, fn func(*domain.Listing) error) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listingIndex[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	draft := l.Clone()
	if err := fn(&draft); err != nil {
		return domain.Listing{}, err
	}
	draft.ID = l.ID
	draft.SellerID = l.SellerID
	draft.Views = l.Views
	draft.Favorites = l.Favorites
	draft.CreatedAt = l.CreatedAt
	draft.UpdatedAt = s.now()
	*l = draft.Clone()
	return l.Clone(), nil
}

// DeleteListing removes the listing and drops it from every favorite set.
func (s *Store) DeleteListing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listingIndex[id]; !ok {
		return false
	}
	delete(s.listingIndex, id)
	for i, l := range s.listings {
		if l.ID == id {
			s.listings = append(s.listings[:i], s.listings[i+1:]...)
			break
		}
	}
	for userID, ids := range s.favorites {
		s.favorites[userID] = without(ids, id)
	}
	return true
}

// Listings returns every listing in store order regardless of status.
func (s *Store) Listings() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l.Clone())
	}
	return out
}

func (s *Store) ListingsBySeller(sellerID string) []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if l.SellerID == sellerID {
			out = append(out, l.Clone())
		}
	}
	return out
}

func (s *Store) CountActiveBySeller(sellerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActiveLocked(sellerID)
}

func (s *Store) countActiveLocked(sellerID string) int {
	n := 0
	for _, l := range s.listings {
		if l.SellerID == sellerID && l.IsActive() {
			n++
		}
	}
	return n
}

// AddUser registers a user. Emails are unique ignoring case.
func (s *Store) AddUser(u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(u.Email)
	if _, taken := s.emailIndex[key]; taken {
		return domain.User{}, domain.ErrEmailTaken
	}
	cp := u
	if cp.ID == "" {
		cp.ID = s.newID()
	}
	if cp.MemberSince.IsZero() {
		cp.MemberSince = s.now()
	}
	s.users = append(s.users, &cp)
	s.userIndex[cp.ID] = &cp
	s.emailIndex[key] = cp.ID
	return s.readUserLocked(&cp), nil
}

func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.userIndex[id]
	if !ok {
		return domain.User{}, false
	}
	return s.readUserLocked(u), true
}

func (s *Store) GetUserByEmail(email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[emailKey(email)]
	if !ok {
		return domain.User{}, false
	}
	return s.readUserLocked(s.userIndex[id]), true
}

// UpdateUser applies fn under the write lock. The id and email are fixed.
func (s *Store) UpdateUser(id string, fn func(*domain.User) error) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.userIndex[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	draft := *u
	if err := fn(&draft); err != nil {
		return domain.User{}, err
	}
	draft.ID = u.ID
	draft.Email = u.Email
	draft.MemberSince = u.MemberSince
	*u = draft
	return s.readUserLocked(u), nil
}

func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, s.readUserLocked(u))
	}
	return out
}

func (s *Store) readUserLocked(u *domain.User) domain.User {
	out := *u
	out.ListingsCount = s.countActiveLocked(u.ID)
	return out
}

// IncrementViews bumps the view counter. Unknown ids are ignored.
func (s *Store) IncrementViews(listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listingIndex[listingID]
	if !ok {
		return false
	}
	l.Views++
	return true
}

// ToggleFavorite flips membership of listingID in the user's favorites and
// reports the new state. Listing.Favorites is left alone.
func (s *Store) ToggleFavorite(userID, listingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.favorites[userID]
	if contains(ids, listingID) {
		s.favorites[userID] = without(ids, listingID)
		return false
	}
	s.favorites[userID] = append(ids, listingID)
	return true
}

func (s *Store) IsFavorite(userID, listingID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.favorites[userID], listingID)
}

// FavoriteIDs returns the user's favorites in the order they were added.
func (s *Store) FavoriteIDs(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.favorites[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
