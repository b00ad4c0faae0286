package model

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
	RoleRider  Role = "rider"
)

var AllowedRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleDriver: true,
	RoleRider:  true,
}

type User struct {
	ID           int64
	CreatedAt    time.Time
	Role         Role
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	PasswordHash []byte
}

// UserSummary is the part of a user embedded into ride payloads.
type UserSummary struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
