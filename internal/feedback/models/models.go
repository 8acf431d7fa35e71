package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a free-form survey response, optionally tied to the session
// and page it was given from.
type Feedback struct {
	ID        uuid.UUID      `json:"id"`
	SessionID *uuid.UUID     `json:"session_id,omitempty"`
	PageName  string         `json:"page_name,omitempty"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}
