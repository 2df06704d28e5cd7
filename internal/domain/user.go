package domain

import "time"

// User is a buyer or seller. ListingsCount is derived: the store fills it on every read
// from the number of active listings the user sells.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Location      Location  `json:"location"`
	MemberSince   time.Time `json:"memberSince"`
	ListingsCount int       `json:"listingsCount"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Verified      bool      `json:"verified"`
}

// DefaultLocation is assigned to users who register without one.
var DefaultLocation = Location{City: "Sydney", State: "NSW", Postcode: "2000"}
