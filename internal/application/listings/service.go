package listings

import (
	"sort"
	"strings"

	"botsales-backend/internal/domain"
	"botsales-backend/internal/pkg/validation"
)

const DefaultRecentLimit = 8

// Repository is the part of the entity store the listing flows need.
type Repository interface {
	AddListing(domain.Listing) domain.Listing
	GetListing(id string) (domain.Listing, bool)
	UpdateListing(id string, fn func(*domain.Listing) error) (domain.Listing, error)
	DeleteListing(id string) bool
	Listings() []domain.Listing
	ListingsBySeller(sellerID string) []domain.Listing
	IncrementViews(id string) bool
	ToggleFavorite(userID, listingID string) bool
	IsFavorite(userID, listingID string) bool
	FavoriteIDs(userID string) []string
}

type Service struct {
	Store       Repository
	RecentLimit int
}

func NewService(repo Repository, recentLimit int) *Service {
	return &Service{Store: repo, RecentLimit: recentLimit}
}

// CreateListingInput carries the fields a seller supplies on the sell form. New
// listings always start unfeatured.
type CreateListingInput struct {
	Title          string                `json:"title" validate:"required,max=120"`
	Description    string                `json:"description" validate:"required,max=5000"`
	Category       domain.Category       `json:"category" validate:"required"`
	Brand          string                `json:"brand" validate:"required,max=100"`
	Model          string                `json:"model" validate:"required,max=100"`
	Year           *int                  `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	Condition      domain.Condition      `json:"condition" validate:"required"`
	Price          int64                 `json:"price"`
	Negotiable     bool                  `json:"negotiable"`
	Images         []string              `json:"images" validate:"max=10"`
	Specifications domain.Specifications `json:"specifications"`
	Location       LocationInput         `json:"location"`
}

type LocationInput struct {
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=50"`
	Postcode string `json:"postcode" validate:"required,postcode"`
}

// ListingPatch is a partial update; nil fields are left unchanged.
type ListingPatch struct {
	Title          *string                `json:"title" validate:"omitempty,max=120"`
	Description    *string                `json:"description" validate:"omitempty,max=5000"`
	Category       *domain.Category       `json:"category"`
	Brand          *string                `json:"brand" validate:"omitempty,max=100"`
	Model          *string                `json:"model" validate:"omitempty,max=100"`
	Year           *int                   `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	Condition      *domain.Condition      `json:"condition"`
	Price          *int64                 `json:"price"`
	Negotiable     *bool                  `json:"negotiable"`
	Images         []string               `json:"images" validate:"omitempty,max=10"`
	Specifications *domain.Specifications `json:"specifications"`
	Location       *LocationInput         `json:"location"`
}

// ToggleFavorite flips the favorite state and returns the new membership.
// Removing a favorite whose listing no longer exists is allowed.
func (s *Service) ToggleFavorite(userID, listingID string) (bool, error) {
	if _, ok := s.Store.GetListing(listingID); !ok && !s.Store.IsFavorite(userID, listingID) {
		return false, domain.ErrListingNotFound
	}
	return s.Store.ToggleFavorite(userID, listingID), nil
}

func (s *Service) IsFavorite(userID, listingID string) bool {
	return s.Store.IsFavorite(userID, listingID)
}

// IncrementViews is a silent no-op for unknown ids.
func (s *Service) IncrementViews(listingID string) {
	s.Store.IncrementViews(listingID)
}

// GetFeaturedListings returns active featured listings in store order.
func (s *Service) GetFeaturedListings() []domain.Listing {
	out := make([]domain.Listing, 0)
	for _, l := range s.Store.Listings() {
		if l.IsActive() && l.Featured {
			out = append(out, l)
		}
	}
	return out
}

// GetRecentListings returns up to limit active listings, newest first. A
// non-positive limit falls back to the configured default.
func (s *Service) GetRecentListings(limit int) []domain.Listing {
	if limit <= 0 {
		limit = s.RecentLimit
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := make([]domain.Listing, 0)
	for _, l := range s.Store.Listings() {
		if l.IsActive() {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetListingsByUser returns every listing the user sells, whatever its status.
func (s *Service) GetListingsByUser(userID string) []domain.Listing {
	out := s.Store.ListingsBySeller(userID)
	if out == nil {
		out = make([]domain.Listing, 0)
	}
	return out
}

// GetFavoriteListings resolves the user's favorites in the order they were added,
// skipping ids whose listing has since been removed.
func (s *Service) GetFavoriteListings(userID string) []domain.Listing {
	out := make([]domain.Listing, 0)
	for _, id := range s.Store.FavoriteIDs(userID) {
		if l, ok := s.Store.GetListing(id); ok {
			out = append(out, l)
		}
	}
	return out
}

func (s *Service) GetListing(id string) (domain.Listing, bool) {
	return s.Store.GetListing(id)
}

// CreateListing validates the sell form and stores an active listing.
func (s *Service) CreateListing(sellerID string, in CreateListingInput) (domain.Listing, error) {
	if in.Price < 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	if err := validation.Struct(in); err != nil {
		return domain.Listing{}, err
	}
	if err := checkEnums(&in.Category, &in.Condition); err != nil {
		return domain.Listing{}, err
	}

	l := s.Store.AddListing(domain.Listing{
		SellerID:       sellerID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Brand:          in.Brand,
		Model:          in.Model,
		Year:           in.Year,
		Condition:      in.Condition,
		Price:          in.Price,
		Negotiable:     in.Negotiable,
		Images:         nonNil(in.Images),
		Specifications: in.Specifications,
		Location:       domain.Location(in.Location),
		Status:         domain.StatusActive,
	})
	return l, nil
}

// EditListing applies a partial update. Only the seller may edit.
func (s *Service) EditListing(sellerID, id string, p ListingPatch) (domain.Listing, error) {
	if p.Price != nil && *p.Price < 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}
	if err := validation.Struct(p); err != nil {
		return domain.Listing{}, err
	}
	if err := checkBlank(map[string]*string{
		"title": p.Title, "description": p.Description, "brand": p.Brand, "model": p.Model,
	}); err != nil {
		return domain.Listing{}, err
	}
	if err := checkEnums(p.Category, p.Condition); err != nil {
		return domain.Listing{}, err
	}
	return s.Store.UpdateListing(id, func(l *domain.Listing) error {
		if l.SellerID != sellerID {
			return domain.ErrNotListingOwner
		}
		if p.Title != nil {
			l.Title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			l.Description = strings.TrimSpace(*p.Description)
		}
		if p.Category != nil {
			l.Category = *p.Category
		}
		if p.Brand != nil {
			l.Brand = strings.TrimSpace(*p.Brand)
		}
		if p.Model != nil {
			l.Model = strings.TrimSpace(*p.Model)
		}
		if p.Year != nil {
			y := *p.Year
			l.Year = &y
		}
		if p.Condition != nil {
			l.Condition = *p.Condition
		}
		if p.Price != nil {
			l.Price = *p.Price
		}
		if p.Negotiable != nil {
			l.Negotiable = *p.Negotiable
		}
		if p.Images != nil {
			l.Images = append([]string(nil), p.Images...)
		}
		if p.Specifications != nil {
			l.Specifications = *p.Specifications
		}
		if p.Location != nil {
			l.Location = domain.Location(*p.Location)
		}
		return nil
	})
}

// ChangeStatus moves a listing through its lifecycle. Sold is terminal.
func (s *Service) ChangeStatus(sellerID, id string, status domain.ListingStatus) (domain.Listing, error) {
	if !status.Valid() {
		return domain.Listing{}, domain.ErrInvalidStatus
	}
	return s.Store.UpdateListing(id, func(l *domain.Listing) error {
		if l.SellerID != sellerID {
			return domain.ErrNotListingOwner
		}
		if l.Status == domain.StatusSold && status != domain.StatusSold {
			return domain.ErrInvalidTransition
		}
		l.Status = status
		return nil
	})
}

func (s *Service) MarkSold(sellerID, id string) (domain.Listing, error) {
	return s.ChangeStatus(sellerID, id, domain.StatusSold)
}

func (s *Service) DeleteListing(sellerID, id string) error {
	l, ok := s.Store.GetListing(id)
	if !ok {
		return domain.ErrListingNotFound
	}
	if l.SellerID != sellerID {
		return domain.ErrNotListingOwner
	}
	s.Store.DeleteListing(id)
	return nil
}

func checkEnums(c *domain.Category, cond *domain.Condition) error {
	var errs domain.ValidationErrors
	if c != nil && !c.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "category", Message: "unknown category"})
	}
	if cond != nil && !cond.Valid() {
		errs = append(errs, &domain.ValidationError{Field: "condition", Message: "unknown condition"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// checkBlank rejects patch fields that are present but blank.
func checkBlank(fields map[string]*string) error {
	var errs domain.ValidationErrors
	for _, name := range []string{"title", "description", "brand", "model"} {
		if v := fields[name]; v != nil && strings.TrimSpace(*v) == "" {
			errs = append(errs, &domain.ValidationError{Field: name, Message: "must not be blank"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
