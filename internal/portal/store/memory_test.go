package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helptoheat/internal/portal/models"
	"helptoheat/pkg/platform/sentinel"
)

func user(email string, role models.Role, supplierID *uuid.UUID) *models.User {
	return &models.User{
		ID:         uuid.New(),
		Email:      email,
		FullName:   "Portal User",
		Role:       role,
		SupplierID: supplierID,
		CreatedAt:  time.Now(),
	}
}

func TestInMemoryCreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Create(ctx, user("manager@example.com", models.RoleServiceManager, nil)))

	err := s.Create(ctx, user("Manager@Example.com", models.RoleServiceManager, nil))
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryListBySupplier(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	edf, ovo := uuid.New(), uuid.New()
	require.NoError(t, s.Create(ctx, user("b@edf.example", models.RoleTeamMember, &edf)))
	require.NoError(t, s.Create(ctx, user("a@edf.example", models.RoleTeamLeader, &edf)))
	require.NoError(t, s.Create(ctx, user("a@ovo.example", models.RoleTeamLeader, &ovo)))
	require.NoError(t, s.Create(ctx, user("manager@example.com", models.RoleServiceManager, nil)))

	users, err := s.List(ctx, &edf)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@edf.example", users[0].Email)

	managers, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, models.RoleServiceManager, managers[0].Role)
}

func TestInMemoryUpdateRole(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	supplierID := uuid.New()
	u := user("member@example.com", models.RoleTeamMember, &supplierID)
	require.NoError(t, s.Create(ctx, u))

	require.NoError(t, s.UpdateRole(ctx, u.ID, models.RoleTeamLeader))
	found, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeamLeader, found.Role)

	assert.ErrorIs(t, s.UpdateRole(ctx, uuid.New(), models.RoleTeamLeader), sentinel.ErrNotFound)
	_, err = s.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
