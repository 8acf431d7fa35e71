package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"helptoheat/internal/audit"
	q "helptoheat/internal/questionnaire"
	"helptoheat/internal/session/models"
	"helptoheat/internal/session/schema"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/sentinel"
	"helptoheat/pkg/requestcontext"
)

type AnswerStore interface {
	Append(ctx context.Context, answer *models.Answer) error
	Latest(ctx context.Context, sessionID uuid.UUID, page q.Page) (*models.Answer, error)
	List(ctx context.Context, sessionID uuid.UUID) ([]*models.Answer, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service stores questionnaire answers and rebuilds session state from them.
type Service struct {
	answers        AnswerStore
	validator      *schema.Validator
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

func New(answers AnswerStore, opts ...Option) *Service {
	s := &Service{
		answers:   answers,
		validator: schema.New(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSessionID returns a fresh session identifier.
func (s *Service) NewSessionID() uuid.UUID {
	return uuid.New()
}

// SaveAnswer validates data and appends it for the page. Unknown keys are
// dropped; invalid values return a validation error with field details.
func (s *Service) SaveAnswer(ctx context.Context, sessionID uuid.UUID, page q.Page, data map[string]any) (*models.Answer, error) {
	if !page.IsKnown() {
		return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	cleaned, err := s.validator.Clean(data)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		ID:        uuid.New(),
		SessionID: sessionID,
		PageName:  page,
		Data:      cleaned,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.answers.Append(ctx, answer); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save answer")
	}

	s.emit(ctx, audit.Event{
		Name:      audit.EventAnswerSaved,
		SessionID: sessionID.String(),
		Data: map[string]any{
			"page_name": string(page),
			"answer_id": answer.ID.String(),
		},
	})
	return answer, nil
}

// GetAnswer returns the latest data saved for the page, or an empty map.
func (s *Service) GetAnswer(ctx context.Context, sessionID uuid.UUID, page q.Page) (map[string]any, error) {
	answer, err := s.answers.Latest(ctx, sessionID, page)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return map[string]any{}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answer")
	}
	if answer.Data == nil {
		return map[string]any{}, nil
	}
	return answer.Data, nil
}

// GetSession merges every answer in the session in creation order.
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (q.Answers, error) {
	answers, err := s.answers.List(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	return models.Merge(answers), nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"event", event.Name,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
