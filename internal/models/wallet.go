package models

import (
	"time"
)

// Wallet holds a user's coin balance. One wallet per user, created lazily on
// first balance query or credit. Balance never goes negative; the locked
// flag blocks debits (not credits) until cleared.
type Wallet struct {
	ID             uint  `gorm:"primaryKey" json:"-"`
	UserID         uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance        int64 `gorm:"not null;default:0" json:"balance"`
	LifetimeEarned int64 `gorm:"not null;default:0" json:"lifetime_earned"`
	LifetimeSpent  int64 `gorm:"not null;default:0" json:"lifetime_spent"`
	Locked         bool  `gorm:"default:false" json:"locked"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}

// TransactionType tags a ledger entry with the business event behind it
type TransactionType string

const (
	TxDeposit      TransactionType = "deposit"
	TxGiftSent     TransactionType = "gift_sent"
	TxGiftReceived TransactionType = "gift_received"
	TxBonus        TransactionType = "bonus"
	TxRefund       TransactionType = "refund"
	TxWithdrawal   TransactionType = "withdrawal"
	TxPenalty      TransactionType = "penalty"
)

// WalletTransaction is an append-only ledger entry. Amount is positive for
// credits and negative for debits; BalanceAfter is the wallet balance
// immediately after applying this entry. Rows are never mutated or deleted.
type WalletTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	WalletID      uint            `gorm:"not null;index" json:"-"`
	Amount        int64           `gorm:"not null" json:"amount"`
	Type          TransactionType `gorm:"not null" json:"type"`
	BalanceAfter  int64           `gorm:"not null" json:"balance_after"`
	Description   string          `json:"description"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
