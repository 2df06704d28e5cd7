package domain

import "time"

// Category is the closed set of robot categories a listing can be filed under.
type Category string

const (
	CategoryHomeCleaning  Category = "home-cleaning"
	CategoryLawnGarden    Category = "lawn-garden"
	CategoryCompanion     Category = "companion"
	CategoryEducational   Category = "educational"
	CategoryIndustrial    Category = "industrial"
	CategoryEntertainment Category = "entertainment"
	CategoryDrones        Category = "drones"
	CategoryHobbyDIY      Category = "hobby-diy"
	CategorySecurity      Category = "security"
	CategoryHealthcare    Category = "healthcare"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHomeCleaning,
	CategoryLawnGarden,
	CategoryCompanion,
	CategoryEducational,
	CategoryIndustrial,
	CategoryEntertainment,
	CategoryDrones,
	CategoryHobbyDIY,
	CategorySecurity,
	CategoryHealthcare,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Condition is ordered by desirability, "new" first.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "like-new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
)

var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionExcellent,
	ConditionGood,
	ConditionFair,
}

func (c Condition) Valid() bool {
	return c.Rank() >= 0
}

// Rank returns 0 for the most desirable condition, -1 for unknown values.
func (c Condition) Rank() int {
	for i, v := range Conditions {
		if c == v {
			return i
		}
	}
	return -1
}

// ListingStatus is the lifecycle state of a listing. Only active listings are searchable.
type ListingStatus string

const (
	StatusActive  ListingStatus = "active"
	StatusPending ListingStatus = "pending"
	StatusSold    ListingStatus = "sold"
	StatusExpired ListingStatus = "expired"
	StatusDraft   ListingStatus = "draft"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusSold, StatusExpired, StatusDraft:
		return true
	}
	return false
}

// Location is shared by listings and users.
type Location struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

// Specifications are the optional technical details of a robot.
type Specifications struct {
	Dimensions          string   `json:"dimensions,omitempty"`
	Weight              string   `json:"weight,omitempty"`
	BatteryLife         string   `json:"batteryLife,omitempty"`
	Connectivity        []string `json:"connectivity,omitempty"`
	Features            []string `json:"features,omitempty"`
	IncludedAccessories []string `json:"includedAccessories,omitempty"`
}

func (s Specifications) clone() Specifications {
	s.Connectivity = cloneStrings(s.Connectivity)
	s.Features = cloneStrings(s.Features)
	s.IncludedAccessories = cloneStrings(s.IncludedAccessories)
	return s
}

// Listing is a robot for sale. SellerID is a weak reference into the user collection.
// Views and Favorites are aggregate counters; Favorites is not derived from the per-user
// favorite relation.
type Listing struct {
	ID             string         `json:"id"`
	SellerID       string         `json:"sellerId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       Category       `json:"category"`
	Brand          string         `json:"brand"`
	Model          string         `json:"model"`
	Year           *int           `json:"year,omitempty"`
	Condition      Condition      `json:"condition"`
	Price          int64          `json:"price"`
	Negotiable     bool           `json:"negotiable"`
	Images         []string       `json:"images"`
	Specifications Specifications `json:"specifications"`
	Location       Location       `json:"location"`
	Status         ListingStatus  `json:"status"`
	Views          int64          `json:"views"`
	Favorites      int64          `json:"favorites"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Featured       bool           `json:"featured,omitempty"`
}

// PrimaryImage returns the first image reference or "" when the listing has none.
func (l Listing) PrimaryImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// IsActive reports whether the listing is eligible for search.
func (l Listing) IsActive() bool {
	return l.Status == StatusActive
}

// Clone returns a deep copy so callers never share slices with the store.
func (l Listing) Clone() Listing {
	out := l
	if l.Year != nil {
		y := *l.Year
		out.Year = &y
	}
	out.Images = cloneStrings(l.Images)
	out.Specifications = l.Specifications.clone()
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
