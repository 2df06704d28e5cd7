package domain

// SortBy selects the ordering applied to search results.
type SortBy string

const (
	SortNewest    SortBy = "newest"
	SortOldest    SortBy = "oldest"
	SortPriceLow  SortBy = "price-low"
	SortPriceHigh SortBy = "price-high"
	SortRelevance SortBy = "relevance"
)

// SearchFilters is the closed set of search constraints. A zero value field means
// "no constraint" for that dimension; prices are pointers so that 0 stays a real bound.
type SearchFilters struct {
	Query     string      `json:"query,omitempty" validate:"max=200"`
	Category  Category    `json:"category,omitempty" validate:"omitempty,oneof=home-cleaning lawn-garden companion educational industrial entertainment drones hobby-diy security healthcare"`
	Brand     string      `json:"brand,omitempty" validate:"max=100"`
	MinPrice  *int64      `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice  *int64      `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	Condition []Condition `json:"condition,omitempty" validate:"omitempty,dive,oneof=new like-new excellent good fair"`
	Location  string      `json:"location,omitempty" validate:"max=100"`
	SortBy    SortBy      `json:"sortBy,omitempty" validate:"omitempty,oneof=newest oldest price-low price-high relevance"`
}

// Clone returns a copy that shares no memory with f.
func (f SearchFilters) Clone() SearchFilters {
	out := f
	if f.MinPrice != nil {
		v := *f.MinPrice
		out.MinPrice = &v
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	if f.Condition != nil {
		out.Condition = make([]Condition, len(f.Condition))
		copy(out.Condition, f.Condition)
	}
	return out
}

// Price is a convenience for building filter bounds.
func Price(v int64) *int64 {
	return &v
}
