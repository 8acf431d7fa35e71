package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Referral is a submitted questionnaire forwarded to a supplier. Data is
// the merged session with the supplier already converted.
type Referral struct {
	ID           uuid.UUID      `json:"id"`
	ReferralID   int64          `json:"referral_id"`
	SessionID    uuid.UUID      `json:"session_id"`
	SupplierID   uuid.UUID      `json:"supplier_id"`
	SupplierName string         `json:"supplier"`
	Data         map[string]any `json:"data"`
	DownloadID   *uuid.UUID     `json:"referral_download_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	ModifiedAt   time.Time      `json:"modified_at"`
}

// FormattedID is the reference shown to the applicant, e.g. GBIS0000042.
func (r *Referral) FormattedID() string {
	return fmt.Sprintf("GBIS%07d", r.ReferralID)
}

// IsUnread reports whether the referral has not been in any download.
func (r *Referral) IsUnread() bool {
	return r.DownloadID == nil
}

// Download is a batch of referrals a supplier has exported.
type Download struct {
	ID               uuid.UUID `json:"id"`
	SupplierID       uuid.UUID `json:"supplier_id"`
	FileName         string    `json:"file_name"`
	LastDownloadedBy string    `json:"last_downloaded_by"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
}

// DownloadFileName formats a batch name as dd-mm-YYYY HH_MM.
func DownloadFileName(at time.Time) string {
	return at.Format("02-01-2006 15_04")
}

// Duplicate describes an earlier referral for the same property.
type Duplicate struct {
	Found        bool      `json:"found"`
	SameSupplier bool      `json:"same_supplier"`
	Supplier     string    `json:"supplier,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}
