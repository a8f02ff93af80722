package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client is a registered third-party platform that may request access to
// user data through the authorization broker.
type Client struct {
	ID     string `gorm:"primaryKey" json:"client_id"`
	Name   string `gorm:"not null" json:"name"`
	Secret string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	UserID uint   `json:"-"`                 // owning admin user

	// RedirectURIs is the comma-joined allow-list of callback URIs.
	RedirectURIs string `json:"redirect_uris"`
	// Scopes is the space-joined set of scopes this client may request.
	Scopes string `json:"scopes"`
	Active bool   `gorm:"default:true" json:"active"`

	// Subscription billing state. Exchange is refused while inactive.
	SubscriptionPlan      string    `gorm:"default:'basic'" json:"subscription_plan"`
	SubscriptionActive    bool      `gorm:"default:true" json:"subscription_active"`
	SubscriptionPeriodEnd time.Time `json:"subscription_period_end"`

	// PlatformRevenueShareBps is the platform's cut of gift volume in
	// basis points (1000 = 10%).
	PlatformRevenueShareBps int `gorm:"default:1000" json:"platform_revenue_share_bps"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}

// AllowsRedirectURI reports whether uri is in the client's allow-list.
// Matching is byte-for-byte; no prefix or wildcard logic.
func (c *Client) AllowsRedirectURI(uri string) bool {
	for _, allowed := range strings.Split(c.RedirectURIs, ",") {
		if strings.TrimSpace(allowed) == uri {
			return true
		}
	}
	return false
}

// RevenueShare returns the platform revenue share as a fraction (0.10 for 10%)
func (c *Client) RevenueShare() float64 {
	return float64(c.PlatformRevenueShareBps) / 10000.0
}
