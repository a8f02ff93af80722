package wallet

import (
	"errors"
	"net/http"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service maintains per-user coin balances with an append-only transaction
// ledger. Every mutation runs inside a database transaction; the balance
// update itself is a guarded single-row UPDATE so two concurrent debits
// cannot slip past the insufficient-balance check together.
type Service struct {
	db *gorm.DB
}

// NewService creates a wallet Service over the given database handle
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// EntryParams describes the ledger entry written alongside a balance change
type EntryParams struct {
	Type          models.TransactionType
	Description   string
	ReferenceType string
	ReferenceID   string
}

// GetBalance returns the wallet state for a user, creating a zero-balance
// wallet on first access.
func (s *Service) GetBalance(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// History returns the most recent ledger entries for a user's wallet
func (s *Service) History(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	wallet, err := s.GetBalance(userID)
	if err != nil {
		return nil, err
	}

	var entries []models.WalletTransaction
	err = s.db.Where("wallet_id = ?", wallet.ID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}

// Credit adds amount coins to the user's wallet, creating it if needed, and
// appends a ledger entry. Returns the new balance.
func (s *Service) Credit(userID uint, amount int64, p EntryParams) (int64, error) {
	var newBalance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = s.CreditTx(tx, userID, amount, p)
		return err
	})
	return newBalance, err
}

// Debit removes amount coins from the user's wallet and appends a ledger
// entry. Returns the new balance.
func (s *Service) Debit(userID uint, amount int64, p EntryParams) (int64, error) {
	var newBalance int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = s.DebitTx(tx, userID, amount, p)
		return err
	})
	return newBalance, err
}

// Transfer moves amount coins from one user to another in a single
// transaction; on any failure neither side is touched. Both ledger entries
// share a generated reference id so the transfer can be reconstructed from
// either wallet's history.
func (s *Service) Transfer(fromUserID, toUserID uint, amount int64, description string) error {
	if fromUserID == toUserID {
		return models.NewServiceError(http.StatusBadRequest, models.ErrInvalidTransfer, "cannot transfer to the same wallet")
	}

	refID := uuid.New().String()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.DebitTx(tx, fromUserID, amount, EntryParams{
			Type:          models.TxWithdrawal,
			Description:   description,
			ReferenceType: "transfer",
			ReferenceID:   refID,
		}); err != nil {
			return err
		}
		_, err := s.CreditTx(tx, toUserID, amount, EntryParams{
			Type:          models.TxDeposit,
			Description:   description,
			ReferenceType: "transfer",
			ReferenceID:   refID,
		})
		return err
	})
}

// SetLocked flips the administrative lock flag. A locked wallet refuses
// debits but still accepts credits.
func (s *Service) SetLocked(userID uint, locked bool) error {
	var wallet models.Wallet
	if err := s.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewServiceError(http.StatusNotFound, models.ErrWalletNotFound, "wallet not found")
		}
		return err
	}
	return s.db.Model(&wallet).Update("locked", locked).Error
}

// CreditTx applies a credit inside an existing transaction. Used by the
// composed gift-send and payment flows so their ledger movements commit
// atomically with their own writes.
func (s *Service) CreditTx(tx *gorm.DB, userID uint, amount int64, p EntryParams) (int64, error) {
	if amount <= 0 {
		return 0, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidAmount, "amount must be positive")
	}

	var wallet models.Wallet
	if err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
		return 0, err
	}

	res := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Updates(map[string]interface{}{
		"balance":         gorm.Expr("balance + ?", amount),
		"lifetime_earned": gorm.Expr("lifetime_earned + ?", amount),
	})
	if res.Error != nil {
		return 0, res.Error
	}

	if err := tx.First(&wallet, wallet.ID).Error; err != nil {
		return 0, err
	}

	entry := models.WalletTransaction{
		WalletID:      wallet.ID,
		Amount:        amount,
		Type:          p.Type,
		BalanceAfter:  wallet.Balance,
		Description:   p.Description,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"type":    p.Type,
		"balance": wallet.Balance,
	}).Debug("Wallet credited")

	return wallet.Balance, nil
}

// DebitTx applies a debit inside an existing transaction. The UPDATE is
// guarded on balance >= amount and NOT locked, so a concurrent writer that
// drained the wallet first makes this debit fail instead of going negative.
func (s *Service) DebitTx(tx *gorm.DB, userID uint, amount int64, p EntryParams) (int64, error) {
	if amount <= 0 {
		return 0, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidAmount, "amount must be positive")
	}

	var wallet models.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewServiceError(http.StatusNotFound, models.ErrWalletNotFound, "wallet not found")
		}
		return 0, err
	}
	if wallet.Locked {
		return 0, models.NewServiceError(http.StatusConflict, models.ErrWalletLocked, "wallet is locked")
	}

	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND locked = ? AND balance >= ?", wallet.ID, false, amount).
		Updates(map[string]interface{}{
			"balance":        gorm.Expr("balance - ?", amount),
			"lifetime_spent": gorm.Expr("lifetime_spent + ?", amount),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, models.NewServiceError(http.StatusBadRequest, models.ErrInsufficientBalance, "insufficient balance").
			WithDetails(map[string]interface{}{
				"required":  amount,
				"available": wallet.Balance,
			})
	}

	if err := tx.First(&wallet, wallet.ID).Error; err != nil {
		return 0, err
	}

	entry := models.WalletTransaction{
		WalletID:      wallet.ID,
		Amount:        -amount,
		Type:          p.Type,
		BalanceAfter:  wallet.Balance,
		Description:   p.Description,
		ReferenceType: p.ReferenceType,
		ReferenceID:   p.ReferenceID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"type":    p.Type,
		"balance": wallet.Balance,
	}).Debug("Wallet debited")

	return wallet.Balance, nil
}
