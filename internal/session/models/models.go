package models

import (
	"time"

	"github.com/google/uuid"

	q "helptoheat/internal/questionnaire"
)

// Answer is one page submission. Answers are append-only; the latest answer
// for a page wins and a session is the merge of all its answers in creation
// order.
type Answer struct {
	ID        uuid.UUID      `json:"id"`
	SessionID uuid.UUID      `json:"session_id"`
	PageName  q.Page         `json:"page_name"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// Merge folds answers, which must be in creation order, into one view.
func Merge(answers []*Answer) q.Answers {
	merged := q.Answers{}
	for _, a := range answers {
		for k, v := range a.Data {
			merged[k] = v
		}
	}
	return merged
}
