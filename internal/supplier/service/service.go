package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/supplier/models"
	"helptoheat/internal/supplier/seed"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/requestcontext"
)

// hiddenFromPortal are legacy suppliers kept for old referrals only.
var hiddenFromPortal = []string{"Bulb, now part of Octopus Energy", "ESB"}

type Store interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByName(ctx context.Context, name string) (*models.Supplier, error)
	List(ctx context.Context) ([]*models.Supplier, error)
	SetDisabled(ctx context.Context, id uuid.UUID, disabled bool, at time.Time) error
}

// Service manages the supplier catalogue.
type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Seed creates any catalogue entries that do not exist yet. Existing rows
// keep their disabled flag.
func (s *Service) Seed(ctx context.Context, entries []seed.Entry) error {
	now := requestcontext.Now(ctx)
	created := 0
	for _, e := range entries {
		err := s.store.Create(ctx, &models.Supplier{
			ID:         uuid.New(),
			Name:       e.Name,
			IsDisabled: e.Disabled,
			CreatedAt:  now,
			ModifiedAt: now,
		})
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed supplier")
		}
		created++
	}
	s.logger.InfoContext(ctx, "supplier catalogue seeded", "created", created, "total", len(entries))
	return nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	supplier, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find supplier")
	}
	return supplier, nil
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find supplier")
	}
	return supplier, nil
}

// IsDisabled reports whether applications to the named supplier are
// closed. Unknown names are treated as open.
func (s *Service) IsDisabled(ctx context.Context, name string) (bool, error) {
	supplier, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find supplier")
	}
	return supplier.IsDisabled, nil
}

// ListForPortal returns suppliers sorted by name without the legacy ones.
func (s *Service) ListForPortal(ctx context.Context) ([]*models.Supplier, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list suppliers")
	}
	out := make([]*models.Supplier, 0, len(all))
	for _, supplier := range all {
		if slices.Contains(hiddenFromPortal, supplier.Name) {
			continue
		}
		out = append(out, supplier)
	}
	return out, nil
}

func (s *Service) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) (*models.Supplier, error) {
	if err := s.store.SetDisabled(ctx, id, disabled, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "supplier not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update supplier")
	}
	s.logger.InfoContext(ctx, "supplier availability changed",
		"supplier_id", id.String(),
		"disabled", disabled,
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.store.FindByID(ctx, id)
}
