package models

import "time"

// Role enumerates the closed set of account roles. Every role is backed by
// its own table; there is no generic users table.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleScheduler Role = "SCHEDULER"
	RoleCrew      Role = "CREW"
	RoleEngineer  Role = "ENGINEER"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleScheduler, RoleCrew, RoleEngineer:
		return true
	}
	return false
}

// Account is the common shape of a row in any of the four role tables. IsPilot
// is only meaningful for crew accounts.
type Account struct {
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	IsPilot      bool       `db:"is_pilot" json:"is_pilot,omitempty"`
	Role         Role       `db:"-" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
