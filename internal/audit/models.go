package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event names recorded by the questionnaire and referral flows.
const (
	EventAnswerSaved     = "Answer saved"
	EventReferralCreated = "Referral created"
)

// Event is an append-only trail record. SessionID is empty for events that
// are not tied to a questionnaire session.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	SessionID string         `json:"session_id,omitempty"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}
