// Package models defines the client-side data models exchanged with the
// MedQuery backend and cached locally.
package models

import (
	"fmt"
	"strings"
)

// Role is the kind of principal a user account represents.
type Role string

const (
	RoleDoctor     Role = "doctor"
	RoleResearcher Role = "researcher"
	RolePatient    Role = "patient"
	RoleAdmin      Role = "admin"
)

// Roles lists every role in display order.
var Roles = []Role{RoleDoctor, RoleResearcher, RolePatient, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleResearcher, RolePatient, RoleAdmin:
		return true
	}
	return false
}

// Clinical reports whether the role must present professional credentials.
func (r Role) Clinical() bool {
	return r == RoleDoctor || r == RoleResearcher
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// User is the authenticated principal as returned by GET /auth/me. The same
// shape is persisted as the cached user record.
type User struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Role           Role    `json:"role"`
	LicenseNumber  *string `json:"license_number,omitempty"`
	Institution    *string `json:"institution,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// Normalize trims text fields, lower-cases the role and drops empty optional
// fields so a server payload and a cached copy compare equal.
func (u User) Normalize() User {
	u.Email = strings.TrimSpace(u.Email)
	u.FullName = strings.TrimSpace(u.FullName)
	u.Role = Role(strings.ToLower(strings.TrimSpace(string(u.Role))))
	u.LicenseNumber = normalizeOptional(u.LicenseNumber)
	u.Institution = normalizeOptional(u.Institution)
	u.Specialization = normalizeOptional(u.Specialization)
	return u
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Str is a helper for filling optional string fields.
func Str(s string) *string {
	return &s
}

// Deref returns the optional value or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
