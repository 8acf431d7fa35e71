package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is an energy company that receives referrals. A disabled
// supplier is closed to new applications.
type Supplier struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsDisabled bool      `json:"is_disabled"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
