package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"helptoheat/internal/questionnaire"
	"helptoheat/internal/session/models"
	"helptoheat/pkg/platform/sentinel"
)

// InMemory keeps answers per session in insertion order.
type InMemory struct {
	mu      sync.RWMutex
	answers map[uuid.UUID][]*models.Answer
}

func NewInMemory() *InMemory {
	return &InMemory{answers: make(map[uuid.UUID][]*models.Answer)}
}

func (s *InMemory) Append(_ context.Context, answer *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *answer
	s.answers[answer.SessionID] = append(s.answers[answer.SessionID], &stored)
	return nil
}

// Latest returns the newest answer for the page, or sentinel.ErrNotFound.
func (s *InMemory) Latest(_ context.Context, sessionID uuid.UUID, page questionnaire.Page) (*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Answer
	for _, a := range s.answers[sessionID] {
		if a.PageName != page {
			continue
		}
		if latest == nil || !a.CreatedAt.Before(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

// List returns the session's answers oldest first.
func (s *InMemory) List(_ context.Context, sessionID uuid.UUID) ([]*models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Answer, 0, len(s.answers[sessionID]))
	for _, a := range s.answers[sessionID] {
		copied := *a
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
