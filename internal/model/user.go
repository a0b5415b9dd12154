package model

import (
	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	Nickname     string `json:"nickname" db:"nickname"`
	Password     string `json:"password,omitempty" db:"-"`
	PasswordHash string `json:"-" db:"password_hash"`

	// Populated relations, loaded on demand.
	Groups []*Group `json:"groups,omitempty" db:"-"`
	Habits []*Habit `json:"habits,omitempty" db:"-"`
}

// UserInclude selects which relation a user fetch populates.
type UserInclude int

const (
	IncludeBare UserInclude = iota
	IncludeGroups
	IncludeHabits
)

// ParseUserInclude maps the wire-level include parameter to its variant.
// Unknown values fall back to a bare fetch.
func ParseUserInclude(s string) UserInclude {
	switch s {
	case "group":
		return IncludeGroups
	case "habit":
		return IncludeHabits
	default:
		return IncludeBare
	}
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"required,min=2,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserCheckResponse is the nickname-by-email lookup payload.
type UserCheckResponse struct {
	Exists   bool   `json:"exists"`
	Nickname string `json:"nickname,omitempty"`
}
