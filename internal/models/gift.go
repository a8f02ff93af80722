package models

import (
	"time"

	"gorm.io/gorm"
)

// Gift is a catalog entry users can send to each other. A gift may be
// exclusive to one platform client and may carry a limited stock cap.
type Gift struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	IconURL   string `json:"icon_url"`
	CoinPrice int64  `gorm:"not null" json:"coin_price"`
	Active    bool   `gorm:"default:true" json:"active"`

	// ExclusiveClientID restricts the gift to one platform; empty means any.
	ExclusiveClientID string `json:"exclusive_client_id,omitempty"`

	Limited     bool  `gorm:"default:false" json:"limited"`
	QuantityCap int64 `json:"quantity_cap,omitempty"`
	SoldCount   int64 `gorm:"default:0" json:"sold_count"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Gift) TableName() string {
	return "gifts"
}

// Remaining returns the stock left for a limited gift
func (g *Gift) Remaining() int64 {
	return g.QuantityCap - g.SoldCount
}

// GiftTransaction is the audit record written alongside the two ledger
// movements of a gift send. The fee split is recorded exactly as computed.
type GiftTransaction struct {
	ID               string `gorm:"primaryKey" json:"id"` // uuid
	SenderID         uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID       uint   `gorm:"not null;index" json:"receiver_id"`
	GiftID           uint   `gorm:"not null" json:"gift_id"`
	Quantity         int    `gorm:"not null" json:"quantity"`
	TotalCoins       int64  `gorm:"not null" json:"total_coins"`
	PlatformFee      int64  `gorm:"not null" json:"platform_fee"`
	SocialWalletFee  int64  `gorm:"not null" json:"social_wallet_fee"`
	ReceiverCredit   int64  `gorm:"not null" json:"receiver_credit"`
	PlatformClientID string    `json:"platform_client_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func (GiftTransaction) TableName() string {
	return "gift_transactions"
}
