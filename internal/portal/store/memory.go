package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"helptoheat/internal/portal/models"
	"helptoheat/pkg/platform/sentinel"
)

// InMemory keeps portal users in a map keyed by id.
type InMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[uuid.UUID]*models.User)}
}

// Create stores a user. Emails are unique regardless of case.
func (s *InMemory) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return sentinel.ErrConflict
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(user), nil
}

// List returns the supplier's users, or the service managers when
// supplierID is nil, ordered by email.
func (s *InMemory) List(_ context.Context, supplierID *uuid.UUID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.User{}
	for _, user := range s.users {
		if !sameSupplier(user.SupplierID, supplierID) {
			continue
		}
		out = append(out, copyUser(user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *InMemory) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.Role = role
	return nil
}

func sameSupplier(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyUser(u *models.User) *models.User {
	copied := *u
	if u.SupplierID != nil {
		id := *u.SupplierID
		copied.SupplierID = &id
	}
	return &copied
}
