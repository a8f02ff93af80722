package models

import (
	"time"
)

// AccessToken is an access/refresh pair scoped to a permission set.
// Refreshing rotates AccessValue/RefreshValue/ExpiresAt in place on the same
// row, so the old pair becomes invalid immediately and at most one live
// record exists per refresh chain.
type AccessToken struct {
	ID           uint   `gorm:"primaryKey"`
	ClientID     string `gorm:"not null;index"`
	UserID       uint   `gorm:"not null;index"`
	AccessValue  string `gorm:"uniqueIndex;not null"`
	RefreshValue string `gorm:"uniqueIndex;not null"`
	Scopes       string
	ExpiresAt    time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AccessToken) TableName() string {
	return "access_tokens"
}

// Expired reports whether the access token has passed its absolute expiry
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
