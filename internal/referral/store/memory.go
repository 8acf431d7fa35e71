package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/referral/models"
	"helptoheat/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	referrals map[uuid.UUID]*models.Referral
	bySession map[uuid.UUID]uuid.UUID
	downloads map[uuid.UUID]*models.Download
	lastID    int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		referrals: make(map[uuid.UUID]*models.Referral),
		bySession: make(map[uuid.UUID]uuid.UUID),
		downloads: make(map[uuid.UUID]*models.Download),
	}
}

// Create stores the referral and assigns the next sequential ReferralID.
// A second referral for a session returns sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, referral *models.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bySession[referral.SessionID]; exists {
		return sentinel.ErrConflict
	}
	s.lastID++
	referral.ReferralID = s.lastID
	stored := *referral
	s.referrals[referral.ID] = &stored
	s.bySession[referral.SessionID] = referral.ID
	return nil
}

func (s *InMemory) FindBySession(_ context.Context, sessionID uuid.UUID) (*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.referrals[id]
	return &copied, nil
}

// MostRecentByUPRN returns the newest referral for the property created at
// or after since.
func (s *InMemory) MostRecentByUPRN(_ context.Context, uprn string, since time.Time) (*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Referral
	for _, r := range s.referrals {
		if q.Answers(r.Data).String(q.FieldUPRN) != uprn || r.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *InMemory) CountUnread(_ context.Context, supplierID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.referrals {
		if r.SupplierID == supplierID && r.IsUnread() {
			n++
		}
	}
	return n, nil
}

// CreateDownload records the batch and assigns every unread referral of
// its supplier to it.
func (s *InMemory) CreateDownload(_ context.Context, download *models.Download) ([]*models.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *download
	s.downloads[download.ID] = &stored

	var out []*models.Referral
	for _, r := range s.referrals {
		if r.SupplierID != download.SupplierID || !r.IsUnread() {
			continue
		}
		id := download.ID
		r.DownloadID = &id
		r.ModifiedAt = download.CreatedAt
		copied := *r
		out = append(out, &copied)
	}
	sortByCreated(out)
	return out, nil
}

func (s *InMemory) FindDownload(_ context.Context, id uuid.UUID) (*models.Download, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.downloads[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

// ListDownloads returns the supplier's batches newest first.
func (s *InMemory) ListDownloads(_ context.Context, supplierID uuid.UUID) ([]*models.Download, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Download
	for _, d := range s.downloads {
		if d.SupplierID == supplierID {
			copied := *d
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) ListByDownload(_ context.Context, downloadID uuid.UUID) ([]*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Referral
	for _, r := range s.referrals {
		if r.DownloadID != nil && *r.DownloadID == downloadID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sortByCreated(out)
	return out, nil
}

func (s *InMemory) TouchDownload(_ context.Context, id uuid.UUID, by string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.downloads[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	d.LastDownloadedBy = by
	d.ModifiedAt = at
	return nil
}

// ListCreatedBetween returns referrals with from <= created_at < to.
func (s *InMemory) ListCreatedBetween(_ context.Context, from, to time.Time) ([]*models.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Referral
	for _, r := range s.referrals {
		if !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			copied := *r
			out = append(out, &copied)
		}
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(referrals []*models.Referral) {
	sort.Slice(referrals, func(i, j int) bool {
		if referrals[i].CreatedAt.Equal(referrals[j].CreatedAt) {
			return referrals[i].ReferralID < referrals[j].ReferralID
		}
		return referrals[i].CreatedAt.Before(referrals[j].CreatedAt)
	})
}
