package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helptoheat/internal/referral/models"
	"helptoheat/pkg/platform/sentinel"
)

func TestInMemoryDownloadsOnlyClaimTheirSupplier(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	edf, ovo := uuid.New(), uuid.New()
	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	for _, supplier := range []uuid.UUID{edf, edf, ovo} {
		require.NoError(t, s.Create(ctx, &models.Referral{ID: uuid.New(), SessionID: uuid.New(), SupplierID: supplier, CreatedAt: now}))
	}

	claimed, err := s.CreateDownload(ctx, &models.Download{ID: uuid.New(), SupplierID: edf, CreatedAt: now})
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	n, _ := s.CountUnread(ctx, ovo)
	assert.Equal(t, 1, n)
	n, _ = s.CountUnread(ctx, edf)
	assert.Equal(t, 0, n)
}

func TestInMemoryMostRecentByUPRN(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	older := &models.Referral{ID: uuid.New(), SessionID: uuid.New(), Data: map[string]any{"uprn": 42.0}, CreatedAt: base}
	newer := &models.Referral{ID: uuid.New(), SessionID: uuid.New(), Data: map[string]any{"uprn": "42"}, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.Create(ctx, older))
	require.NoError(t, s.Create(ctx, newer))

	got, err := s.MostRecentByUPRN(ctx, "42", base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = s.MostRecentByUPRN(ctx, "42", base.Add(2*time.Hour))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = s.FindBySession(ctx, uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Create(ctx, &models.Referral{ID: uuid.New(), SessionID: older.SessionID}), sentinel.ErrConflict)
}
