package models

import (
	"time"
)

// Payment status values
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment records a coin top-up purchased through the payment processor.
// ExternalPaymentID is unique and acts as the webhook idempotency gate: a
// second delivery of the same event finds the record already completed and
// must not credit again.
type Payment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ExternalPaymentID string     `gorm:"uniqueIndex;not null" json:"external_payment_id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	AmountUSDCents    int64      `gorm:"not null" json:"amount_usd_cents"`
	CoinAmount        int64      `gorm:"not null" json:"coin_amount"`
	Status            string     `gorm:"default:'pending'" json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
