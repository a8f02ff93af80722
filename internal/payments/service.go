package payments

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/wallet"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// coinsPerUSDCent is the fixed conversion: 100 coins = $1, so 1 coin = 1 cent
const coinsPerUSDCent = 1

// Webhook event statuses consumed from the payment processor
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
)

// Event is a verified payment-processor webhook event
type Event struct {
	ExternalPaymentID string `json:"external_payment_id" binding:"required"`
	UserID            uint   `json:"user_id" binding:"required"`
	CoinAmount        int64  `json:"coin_amount"`
	Status            string `json:"status" binding:"required"`
}

// Service creates top-up payment records and settles them from webhook
// events. The unique external payment id is the idempotency gate: a second
// delivery of the same succeeded event finds the record completed and does
// not credit again.
type Service struct {
	db      *gorm.DB
	wallets *wallet.Service
}

// NewService creates a payment Service over the given database handle
func NewService(db *gorm.DB, wallets *wallet.Service) *Service {
	return &Service{db: db, wallets: wallets}
}

// CreateTopUp records a pending coin purchase for the user and returns it.
// The generated external id is handed to the payment processor and comes
// back on the webhook.
func (s *Service) CreateTopUp(userID uint, coinAmount int64) (*models.Payment, error) {
	if coinAmount <= 0 {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidAmount, "coin amount must be positive")
	}

	payment := &models.Payment{
		ExternalPaymentID: "pay_" + uuid.New().String(),
		UserID:            userID,
		AmountUSDCents:    coinAmount / coinsPerUSDCent,
		CoinAmount:        coinAmount,
		Status:            models.PaymentPending,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment returns a payment record by its external id
func (s *Service) GetPayment(externalID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("external_payment_id = ?", externalID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewServiceError(http.StatusNotFound, models.ErrPaymentNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

// HandleEvent consumes a verified webhook event. On payment_succeeded the
// wallet credit and the status flip to completed commit in one transaction;
// a redelivered event is a no-op because the status check happens first.
func (s *Service) HandleEvent(ev Event) error {
	switch ev.Status {
	case EventPaymentSucceeded:
		return s.settleSucceeded(ev)
	case EventPaymentFailed:
		return s.markFailed(ev)
	default:
		log.WithField("status", ev.Status).Debug("Ignoring payment event")
		return nil
	}
}

func (s *Service) settleSucceeded(ev Event) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("external_payment_id = ?", ev.ExternalPaymentID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewServiceError(http.StatusNotFound, models.ErrPaymentNotFound, "payment not found")
			}
			return err
		}

		// Idempotency gate: the event was already processed.
		if payment.Status == models.PaymentCompleted {
			log.WithField("external_payment_id", ev.ExternalPaymentID).Info("Duplicate payment event ignored")
			return nil
		}

		if _, err := s.wallets.CreditTx(tx, payment.UserID, payment.CoinAmount, wallet.EntryParams{
			Type:          models.TxDeposit,
			Description:   fmt.Sprintf("Coin top-up (%d coins)", payment.CoinAmount),
			ReferenceType: "payment",
			ReferenceID:   payment.ExternalPaymentID,
		}); err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.Model(&payment).Updates(map[string]interface{}{
			"status":       models.PaymentCompleted,
			"completed_at": &now,
		}).Error
	})
}

func (s *Service) markFailed(ev Event) error {
	res := s.db.Model(&models.Payment{}).
		Where("external_payment_id = ? AND status = ?", ev.ExternalPaymentID, models.PaymentPending).
		Update("status", models.PaymentFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.WithField("external_payment_id", ev.ExternalPaymentID).Warn("Payment failed")
	}
	return nil
}
