package models

import (
	"time"

	"botsales-backend/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID          string         `gorm:"column:id;primaryKey" json:"id"`
	Email       string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Avatar      string         `gorm:"column:avatar" json:"avatar"`
	Phone       string         `gorm:"column:phone" json:"phone"`
	Bio         string         `gorm:"column:bio" json:"bio"`
	City        string         `gorm:"column:city" json:"city"`
	State       string         `gorm:"column:state;type:varchar(8)" json:"state"`
	Postcode    string         `gorm:"column:postcode;type:varchar(8)" json:"postcode"`
	MemberSince time.Time      `gorm:"column:member_since" json:"member_since"`
	Rating      float64        `gorm:"column:rating;not null;default:0" json:"rating"`
	ReviewCount int            `gorm:"column:review_count;not null;default:0" json:"review_count"`
	Verified    bool           `gorm:"column:verified;not null;default:false" json:"verified"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ToDomain leaves ListingsCount at zero; the store derives it.
func (u User) ToDomain() domain.User {
	return domain.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Avatar:      u.Avatar,
		Phone:       u.Phone,
		Bio:         u.Bio,
		Location:    domain.Location{City: u.City, State: u.State, Postcode: u.Postcode},
		MemberSince: u.MemberSince.UTC(),
		Rating:      u.Rating,
		ReviewCount: u.ReviewCount,
		Verified:    u.Verified,
	}
}

func UserFromDomain(u domain.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Avatar:      u.Avatar,
		Phone:       u.Phone,
		Bio:         u.Bio,
		City:        u.Location.City,
		State:       u.Location.State,
		Postcode:    u.Location.Postcode,
		MemberSince: u.MemberSince,
		Rating:      u.Rating,
		ReviewCount: u.ReviewCount,
		Verified:    u.Verified,
	}
}
