package models

import (
	"time"

	"botsales-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is the seed-table row for a robot listing. Images and specifications are
// JSON columns.
type Listing struct {
	ID             string                                    `gorm:"column:id;primaryKey" json:"id"`
	SellerID       string                                    `gorm:"column:seller_id;index;not null" json:"seller_id"`
	Title          string                                    `gorm:"column:title;not null" json:"title"`
	Description    string                                    `gorm:"column:description;not null" json:"description"`
	Category       string                                    `gorm:"column:category;type:varchar(32);not null" json:"category"`
	Brand          string                                    `gorm:"column:brand;not null" json:"brand"`
	Model          string                                    `gorm:"column:model;not null" json:"model"`
	Year           *int                                      `gorm:"column:year" json:"year"`
	Condition      string                                    `gorm:"column:condition;type:varchar(16);not null" json:"condition"`
	Price          int64                                     `gorm:"column:price;not null" json:"price"`
	Negotiable     bool                                      `gorm:"column:negotiable;not null;default:false" json:"negotiable"`
	Images         datatypes.JSONSlice[string]               `gorm:"column:images" json:"images"`
	Specifications datatypes.JSONType[domain.Specifications] `gorm:"column:specifications" json:"specifications"`
	City           string                                    `gorm:"column:city;not null" json:"city"`
	State          string                                    `gorm:"column:state;type:varchar(8);not null" json:"state"`
	Postcode       string                                    `gorm:"column:postcode;type:varchar(8);not null" json:"postcode"`
	Status         string                                    `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`
	Views          int64                                     `gorm:"column:views;not null;default:0" json:"views"`
	Favorites      int64                                     `gorm:"column:favorites;not null;default:0" json:"favorites"`
	Featured       bool                                      `gorm:"column:featured;not null;default:false" json:"featured"`
	Position       int                                       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time                                 `json:"createdAt"`
	UpdatedAt      time.Time                                 `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt                            `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l Listing) ToDomain() domain.Listing {
	return domain.Listing{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Description:    l.Description,
		Category:       domain.Category(l.Category),
		Brand:          l.Brand,
		Model:          l.Model,
		Year:           l.Year,
		Condition:      domain.Condition(l.Condition),
		Price:          l.Price,
		Negotiable:     l.Negotiable,
		Images:         append([]string{}, l.Images...),
		Specifications: l.Specifications.Data(),
		Location:       domain.Location{City: l.City, State: l.State, Postcode: l.Postcode},
		Status:         domain.ListingStatus(l.Status),
		Views:          l.Views,
		Favorites:      l.Favorites,
		CreatedAt:      l.CreatedAt.UTC(),
		UpdatedAt:      l.UpdatedAt.UTC(),
		Featured:       l.Featured,
	}
}

// ListingFromDomain builds a row; position keeps the store order stable across loads.
func ListingFromDomain(l domain.Listing, position int) Listing {
	return Listing{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Description:    l.Description,
		Category:       string(l.Category),
		Brand:          l.Brand,
		Model:          l.Model,
		Year:           l.Year,
		Condition:      string(l.Condition),
		Price:          l.Price,
		Negotiable:     l.Negotiable,
		Images:         datatypes.JSONSlice[string](l.Images),
		Specifications: datatypes.NewJSONType(l.Specifications),
		City:           l.Location.City,
		State:          l.Location.State,
		Postcode:       l.Location.Postcode,
		Status:         string(l.Status),
		Views:          l.Views,
		Favorites:      l.Favorites,
		Featured:       l.Featured,
		Position:       position,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
