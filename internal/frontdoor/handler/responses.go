package handler

import (
	"github.com/google/uuid"

	"helptoheat/internal/frontdoor/service"
	q "helptoheat/internal/questionnaire"
)

// RouteResponse is returned by the stateless routing endpoints.
type RouteResponse struct {
	Page q.Page `json:"page"`
}

// EligibilityResponse lists the schemes a household qualifies for.
type EligibilityResponse struct {
	Eligible bool                 `json:"eligible"`
	Schemes  []service.SchemeView `json:"schemes"`
}

type FeedbackResponse struct {
	ID uuid.UUID `json:"id"`
}
