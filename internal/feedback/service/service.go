package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"helptoheat/internal/feedback/models"
	q "helptoheat/internal/questionnaire"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/requestcontext"
)

// Survey answers. At least one must be non-blank.
var surveyFields = []string{"satisfaction", "usage-reason", "guidance", "accuracy", "advice", "more-detail"}

const maxAnswerLength = 4000

// Columns is the export layout for feedback rows.
var Columns = []string{
	"page_name",
	"satisfaction",
	"usage_reason",
	"guidance",
	"accuracy",
	"advice",
	"more_detail",
	"browser",
	"os",
	"submission_date",
	"submission_time",
}

var london, _ = time.LoadLocation("Europe/London")

type Store interface {
	Create(ctx context.Context, f *models.Feedback) error
	List(ctx context.Context) ([]*models.Feedback, error)
}

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

// Save stores the survey answers with the caller's parsed user agent.
// Keys other than the survey fields are dropped.
func (s *Service) Save(ctx context.Context, sessionID *uuid.UUID, page string, raw map[string]string) (*models.Feedback, error) {
	if page != "" && !q.Page(page).IsKnown() {
		return nil, dErrors.Validation("invalid feedback", map[string]string{"page_name": "Unknown page"})
	}

	data := make(map[string]any, len(surveyFields)+1)
	answered := false
	for _, field := range surveyFields {
		v := strings.TrimSpace(raw[field])
		if v == "" {
			continue
		}
		if len(v) > maxAnswerLength {
			return nil, dErrors.Validation("invalid feedback", map[string]string{field: "Answer is too long"})
		}
		data[field] = v
		answered = true
	}
	if !answered {
		return nil, dErrors.Validation("invalid feedback", map[string]string{"feedback": "Please answer at least one question"})
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		data["user_agent"] = describeUserAgent(ua)
	}

	f := &models.Feedback{
		ID:        uuid.New(),
		SessionID: sessionID,
		PageName:  page,
		Data:      data,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save feedback")
	}
	s.logger.InfoContext(ctx, "feedback saved",
		"page_name", page,
		"request_id", requestcontext.RequestID(ctx),
	)
	return f, nil
}

func describeUserAgent(raw string) map[string]any {
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	return map[string]any{
		"browser":         browser,
		"browser_version": version,
		"os":              ua.OS(),
		"mobile":          ua.Mobile(),
		"bot":             ua.Bot(),
	}
}

// Rows flattens all feedback into export rows.
func (s *Service) Rows(ctx context.Context) ([]map[string]string, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list feedback")
	}
	rows := make([]map[string]string, 0, len(all))
	for _, f := range all {
		rows = append(rows, row(f))
	}
	return rows, nil
}

func row(f *models.Feedback) map[string]string {
	answer := func(key string) string {
		if v, ok := f.Data[key].(string); ok && v != "" {
			return v
		}
		return "Unanswered"
	}
	var browser, os string
	if ua, ok := f.Data["user_agent"].(map[string]any); ok {
		browser, _ = ua["browser"].(string)
		os, _ = ua["os"].(string)
	}
	created := f.CreatedAt.In(london)
	return map[string]string{
		"page_name":       f.PageName,
		"satisfaction":    answer("satisfaction"),
		"usage_reason":    answer("usage-reason"),
		"guidance":        answer("guidance"),
		"accuracy":        answer("accuracy"),
		"advice":          answer("advice"),
		"more_detail":     answer("more-detail"),
		"browser":         browser,
		"os":              os,
		"submission_date": created.Format("2006-01-02"),
		"submission_time": created.Format("15:04:05"),
	}
}
