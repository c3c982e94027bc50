package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleTA      = "ta"
	RoleStudent = "student"
)

// Account is a login identity. Enrollment lives in Member records; an Account
// only carries credentials and the role baked into session tokens.
type Account struct {
	Username   string     `json:"username"`
	Hash       string     `json:"hash"`
	Role       string     `json:"role"`
	MustChange bool       `json:"mustChange"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}
