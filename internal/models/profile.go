package models

import "time"

const DefaultProfilePicture = "default.jpg"

// Profile holds the optional personal details of an account. Nil fields
// were never set.
type Profile struct {
	ID             int64
	UserID         int64
	Address        *string
	City           *string
	Country        *string
	DateOfBirth    *time.Time
	ProfilePicture string
	PhoneNumber    *string
}
