package models

import (
	"time"
)

// AuthorizationCode is a one-time grant issued by the authorize endpoint and
// consumed exactly once during token exchange. A code with Used=true or an
// expiry in the past is permanently unusable.
type AuthorizationCode struct {
	Code        string `gorm:"primaryKey"`
	ClientID    string `gorm:"not null;index"`
	UserID      uint   `gorm:"not null"`
	Scopes      string
	RedirectURI string
	Used        bool      `gorm:"default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (AuthorizationCode) TableName() string {
	return "authorization_codes"
}

// Expired reports whether the code's window has passed at time now
func (c *AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
