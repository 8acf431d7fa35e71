package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "helptoheat/pkg/domain-errors"
)

// Role is a portal user's permission level.
type Role string

const (
	RoleServiceManager Role = "Service Manager"
	RoleTeamLeader     Role = "Team Leader"
	RoleTeamMember     Role = "Team Member"
)

// ParseRole accepts a role's display name.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleServiceManager, RoleTeamLeader, RoleTeamMember:
		return r, nil
	}
	return "", dErrors.Validation("invalid role", map[string]string{"role": "Select a valid role"})
}

// IsSupplierRole reports whether the role belongs to a supplier team.
func (r Role) IsSupplierRole() bool {
	return r == RoleTeamLeader || r == RoleTeamMember
}

// User is a portal account.
//
// Invariants:
//   - Email is non-empty and at most 128 characters
//   - Team leaders and team members belong to exactly one supplier
//   - Service managers belong to no supplier
type User struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Role       Role       `json:"role"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewUser(id uuid.UUID, email, fullName string, role Role, supplierID *uuid.UUID, now time.Time) (*User, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email cannot be empty")
	}
	if len(email) > 128 || len(fullName) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email and name must be 128 characters or less")
	}
	u := &User{
		ID:         id,
		Email:      email,
		FullName:   fullName,
		Role:       role,
		SupplierID: supplierID,
		CreatedAt:  now,
	}
	if err := u.checkSupplier(role); err != nil {
		return nil, err
	}
	return u, nil
}

// CanChangeRole checks the user may move to role. Supplier team members can
// only move within their team and service managers stay service managers.
func (u *User) CanChangeRole(role Role) error {
	if u.Role == role {
		return dErrors.New(dErrors.CodeInvariantViolation, "user already has this role")
	}
	return u.checkSupplier(role)
}

// ApplyRole sets the role. Call CanChangeRole first.
func (u *User) ApplyRole(role Role) {
	u.Role = role
}

func (u *User) checkSupplier(role Role) error {
	switch {
	case role.IsSupplierRole() && u.SupplierID == nil:
		return dErrors.New(dErrors.CodeInvariantViolation, "team roles need a supplier")
	case role == RoleServiceManager && u.SupplierID != nil:
		return dErrors.New(dErrors.CodeInvariantViolation, "service managers cannot belong to a supplier")
	}
	return nil
}
