package models

import "time"

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	FirstName    string
	LastName     string
	DateJoined   time.Time
	UpdatedAt    time.Time
}
