package store

import (
	"context"
	"sync"

	"helptoheat/internal/feedback/models"
)

type InMemory struct {
	mu       sync.RWMutex
	feedback []*models.Feedback
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Create(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *f
	s.feedback = append(s.feedback, &stored)
	return nil
}

// List returns feedback oldest first.
func (s *InMemory) List(_ context.Context) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Feedback, 0, len(s.feedback))
	for _, f := range s.feedback {
		copied := *f
		out = append(out, &copied)
	}
	return out, nil
}
