package service

import (
	"time"

	"github.com/google/uuid"

	"helptoheat/internal/referral/models"
)

func referralWith(data map[string]any) *models.Referral {
	return &models.Referral{
		ID:           uuid.New(),
		ReferralID:   1,
		SessionID:    uuid.New(),
		SupplierName: "EDF",
		Data:         data,
		CreatedAt:    time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
	}
}
