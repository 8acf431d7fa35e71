package handler

import (
	"strings"

	"github.com/google/uuid"

	portalService "helptoheat/internal/portal/service"
	dErrors "helptoheat/pkg/domain-errors"
)

// SetDisabledRequest opens or closes a supplier to new applications.
type SetDisabledRequest struct {
	Disabled *bool `json:"disabled"`
}

func (r *SetDisabledRequest) Validate() error {
	if r == nil || r.Disabled == nil {
		return dErrors.Validation("disabled is required", map[string]string{"disabled": "Must be true or false"})
	}
	return nil
}

type CreateUserRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	SupplierID string `json:"supplier_id,omitempty"`

	parsedSupplierID *uuid.UUID
}

func (r *CreateUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if s := strings.TrimSpace(r.SupplierID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return dErrors.Validation("invalid supplier", map[string]string{"supplier_id": "Supplier id must be a UUID"})
		}
		r.parsedSupplierID = &id
	}
	return nil
}

func (r *CreateUserRequest) toService() portalService.CreateUserRequest {
	return portalService.CreateUserRequest{
		Email:      r.Email,
		FullName:   r.FullName,
		Role:       r.Role,
		SupplierID: r.parsedSupplierID,
	}
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Role) == "" {
		return dErrors.Validation("role is required", map[string]string{"role": "Select a valid role"})
	}
	return nil
}
