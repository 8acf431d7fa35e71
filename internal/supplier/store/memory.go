package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/supplier/models"
	"helptoheat/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	suppliers map[uuid.UUID]*models.Supplier
	byName    map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		suppliers: make(map[uuid.UUID]*models.Supplier),
		byName:    make(map[string]uuid.UUID),
	}
}

// Create stores a supplier. Names are unique; a taken name returns
// sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, supplier *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[supplier.Name]; taken {
		return sentinel.ErrConflict
	}
	stored := *supplier
	s.suppliers[supplier.ID] = &stored
	s.byName[supplier.Name] = supplier.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	supplier, ok := s.suppliers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *supplier
	return &copied, nil
}

func (s *InMemory) FindByName(ctx context.Context, name string) (*models.Supplier, error) {
	s.mu.RLock()
	id, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// List returns every supplier ordered by name.
func (s *InMemory) List(_ context.Context) ([]*models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Supplier, 0, len(s.suppliers))
	for _, supplier := range s.suppliers {
		copied := *supplier
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) SetDisabled(_ context.Context, id uuid.UUID, disabled bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	supplier, ok := s.suppliers[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	supplier.IsDisabled = disabled
	supplier.ModifiedAt = at
	return nil
}
