package user

import (
	"internhub/internal/common"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleMentor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an account plus its public profile. Role is fixed at registration.
type User struct {
	ID         common.UUID `json:"id"`
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       Role        `json:"role"`
	Avatar     string      `json:"avatar,omitempty"`
	Department string      `json:"department,omitempty"`
	Company    string      `json:"company,omitempty"`
	Bio        string      `json:"bio,omitempty"`
	Skills     []string    `json:"skills,omitempty"`
	Experience int         `json:"experience,omitempty"`
}

func (u User) Clone() User {
	clone := u
	clone.Skills = append([]string(nil), u.Skills...)
	return clone
}
