package handler

import (
	"strings"

	"github.com/google/uuid"

	q "helptoheat/internal/questionnaire"
	dErrors "helptoheat/pkg/domain-errors"
)

const (
	maxFeedbackFields = 16
	maxPageNameLength = 64
)

// SubmitPageRequest is the body for POST /sessions/{sessionID}/pages/{page}.
type SubmitPageRequest struct {
	Data map[string]any `json:"data"`
}

func (r *SubmitPageRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	return nil
}

// RouteRequest is the body for the stateless routing endpoints.
type RouteRequest struct {
	Page    string         `json:"page"`
	Answers map[string]any `json:"answers"`

	parsedPage q.Page
}

func (r *RouteRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Page = strings.TrimSpace(r.Page)
	if r.Page == "" {
		return dErrors.Validation("page is required", map[string]string{"page": "Enter a page name"})
	}
	r.parsedPage = q.ParsePage(r.Page)
	if r.parsedPage == q.PageUnknown {
		return dErrors.New(dErrors.CodeNotFound, "page not found")
	}
	return nil
}

// EvaluateRequest is the body for POST /eligibility/evaluate.
type EvaluateRequest struct {
	Answers map[string]any `json:"answers"`
}

func (r *EvaluateRequest) Validate() error {
	if r == nil || r.Answers == nil {
		return dErrors.New(dErrors.CodeBadRequest, "answers are required")
	}
	return nil
}

// FeedbackRequest is the body for POST /feedback. Session and page are
// optional; feedback can be given from anywhere on the site.
type FeedbackRequest struct {
	SessionID string            `json:"session_id,omitempty"`
	PageName  string            `json:"page_name,omitempty"`
	Answers   map[string]string `json:"answers"`

	parsedSessionID *uuid.UUID
}

func (r *FeedbackRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Answers) > maxFeedbackFields {
		return dErrors.New(dErrors.CodeValidation, "too many feedback answers")
	}
	r.PageName = strings.TrimSpace(r.PageName)
	if len(r.PageName) > maxPageNameLength {
		return dErrors.Validation("invalid page", map[string]string{"page_name": "Page name is too long"})
	}
	if s := strings.TrimSpace(r.SessionID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return dErrors.Validation("invalid session", map[string]string{"session_id": "Session id must be a UUID"})
		}
		r.parsedSessionID = &id
	}
	return nil
}
