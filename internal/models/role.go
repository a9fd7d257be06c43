package models

import (
	"fmt"
	"strings"
)

// Role is one step of the viewer < manager < admin hierarchy.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Rank orders roles; unknown roles rank 0 and satisfy nothing.
func (r Role) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal is an authenticated caller. Its effective rank is the highest
// rank among its roles and is fixed at construction.
type Principal struct {
	UserID   string
	Username string
	Roles    []Role
	rank     int
}

func NewPrincipal(userID, username string, roles []Role) Principal {
	p := Principal{UserID: userID, Username: username, Roles: roles}
	for _, r := range roles {
		if r.Rank() > p.rank {
			p.rank = r.Rank()
		}
	}
	return p
}

// Allows reports whether the principal meets the required role.
func (p Principal) Allows(required Role) bool {
	return required.Valid() && p.rank >= required.Rank()
}

// Highest returns the strongest role held, or "" if none is valid.
func (p Principal) Highest() Role {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleViewer} {
		if p.rank == r.Rank() {
			return r
		}
	}
	return ""
}
