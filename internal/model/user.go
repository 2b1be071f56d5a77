package model

import (
	"time"
)

// Role is the account type chosen at registration.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// LandingPath returns the dashboard for the role, or the login page when the
// role has none.
func (r Role) LandingPath() string {
	switch r {
	case RoleDoctor:
		return "/doctor"
	case RolePatient:
		return "/patient"
	default:
		return "/login"
	}
}

// User represents a registered account. Users are never updated or deleted.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
