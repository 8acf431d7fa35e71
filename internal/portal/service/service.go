package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"helptoheat/internal/audit"
	"helptoheat/internal/portal/models"
	supplierModels "helptoheat/internal/supplier/models"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/email"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/requestcontext"
)

// Audit event names for portal account changes.
const (
	EventUserCreated     = "Portal user created"
	EventUserRoleChanged = "Portal user role changed"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, supplierID *uuid.UUID) ([]*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

type SupplierFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*supplierModels.Supplier, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CreateUserRequest carries the fields of a new portal account.
type CreateUserRequest struct {
	Email      string     `json:"email" validate:"required,email,max=128"`
	FullName   string     `json:"full_name" validate:"required,max=128"`
	Role       string     `json:"role" validate:"required"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
}

// Service manages portal accounts.
type Service struct {
	users          UserStore
	suppliers      SupplierFinder
	validate       *validator.Validate
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(users UserStore, suppliers SupplierFinder, opts ...Option) *Service {
	s := &Service{
		users:     users,
		suppliers: suppliers,
		validate:  validator.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser adds a portal account. Team roles must name an existing
// supplier; service managers must not. A blank name is derived from the
// email address.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		req.FullName = email.DisplayName(req.Email)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		if _, err := s.suppliers.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
	}

	user, err := models.NewUser(uuid.New(), req.Email, req.FullName, role, req.SupplierID, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.emit(ctx, audit.Event{
		Name: EventUserCreated,
		Data: map[string]any{"user_id": user.ID.String(), "role": string(user.Role)},
	})
	return user, nil
}

// ListUsers returns the supplier's team, or the service managers when
// supplierID is nil.
func (s *Service) ListUsers(ctx context.Context, supplierID *uuid.UUID) ([]*models.User, error) {
	if supplierID != nil {
		if _, err := s.suppliers.FindByID(ctx, *supplierID); err != nil {
			return nil, err
		}
	}
	users, err := s.users.List(ctx, supplierID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// ChangeRole moves a user between roles allowed for their supplier.
func (s *Service) ChangeRole(ctx context.Context, id uuid.UUID, roleName string) (*models.User, error) {
	role, err := models.ParseRole(roleName)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := user.CanChangeRole(role); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	previous := user.Role
	user.ApplyRole(role)

	s.logger.InfoContext(ctx, "portal user role changed",
		"user_id", id.String(),
		"from", string(previous),
		"to", string(role),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, audit.Event{
		Name: EventUserRoleChanged,
		Data: map[string]any{"user_id": id.String(), "from": string(previous), "to": string(role)},
	})
	return user, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "event", event.Name, "error", err)
	}
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "user validation failed")
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Field() {
		case "Email":
			fields["email"] = "Enter a valid email address"
		case "FullName":
			fields["full_name"] = "Enter a name of 128 characters or less"
		case "Role":
			fields["role"] = "Select a valid role"
		}
	}
	return dErrors.Validation("invalid user", fields)
}
