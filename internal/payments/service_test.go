package payments

import (
	"strings"
	"testing"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Service, *wallet.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Wallet{}, &models.WalletTransaction{}, &models.Payment{})
	require.NoError(t, err)

	wallets := wallet.NewService(db)
	return db, NewService(db, wallets), wallets
}

func TestCreateTopUp(t *testing.T) {
	_, svc, _ := setupTestDB(t)

	payment, err := svc.CreateTopUp(1, 500)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payment.ExternalPaymentID, "pay_"))
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, int64(500), payment.CoinAmount)
	assert.Equal(t, int64(500), payment.AmountUSDCents)
	assert.Nil(t, payment.CompletedAt)
}

func TestCreateTopUpInvalidAmount(t *testing.T) {
	_, svc, _ := setupTestDB(t)

	_, err := svc.CreateTopUp(1, 0)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidAmount, models.AsServiceError(err).Code)
}

func TestWebhookCreditIsIdempotent(t *testing.T) {
	db, svc, wallets := setupTestDB(t)

	payment, err := svc.CreateTopUp(1, 500)
	require.NoError(t, err)

	ev := Event{
		ExternalPaymentID: payment.ExternalPaymentID,
		UserID:            1,
		CoinAmount:        500,
		Status:            EventPaymentSucceeded,
	}
	require.NoError(t, svc.HandleEvent(ev))

	w, err := wallets.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.Balance)

	settled, err := svc.GetPayment(payment.ExternalPaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
	require.NotNil(t, settled.CompletedAt)

	// Redelivery of the same event must not credit again
	require.NoError(t, svc.HandleEvent(ev))

	w, err = wallets.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(500), w.Balance)

	var entries int64
	db.Model(&models.WalletTransaction{}).Where("reference_id = ?", payment.ExternalPaymentID).Count(&entries)
	assert.Equal(t, int64(1), entries)
}

func TestWebhookUnknownPayment(t *testing.T) {
	_, svc, _ := setupTestDB(t)

	err := svc.HandleEvent(Event{
		ExternalPaymentID: "pay_missing",
		UserID:            1,
		Status:            EventPaymentSucceeded,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrPaymentNotFound, models.AsServiceError(err).Code)
}

func TestWebhookFailedEvent(t *testing.T) {
	_, svc, wallets := setupTestDB(t)

	payment, err := svc.CreateTopUp(1, 500)
	require.NoError(t, err)

	require.NoError(t, svc.HandleEvent(Event{
		ExternalPaymentID: payment.ExternalPaymentID,
		UserID:            1,
		Status:            EventPaymentFailed,
	}))

	failed, err := svc.GetPayment(payment.ExternalPaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, failed.Status)

	w, err := wallets.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestWebhookFailedDoesNotUndoCompleted(t *testing.T) {
	_, svc, _ := setupTestDB(t)

	payment, err := svc.CreateTopUp(1, 500)
	require.NoError(t, err)

	require.NoError(t, svc.HandleEvent(Event{
		ExternalPaymentID: payment.ExternalPaymentID,
		UserID:            1,
		Status:            EventPaymentSucceeded,
	}))
	require.NoError(t, svc.HandleEvent(Event{
		ExternalPaymentID: payment.ExternalPaymentID,
		UserID:            1,
		Status:            EventPaymentFailed,
	}))

	settled, err := svc.GetPayment(payment.ExternalPaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, settled.Status)
}

func TestWebhookIgnoresUnknownStatus(t *testing.T) {
	_, svc, _ := setupTestDB(t)

	require.NoError(t, svc.HandleEvent(Event{
		ExternalPaymentID: "pay_whatever",
		UserID:            1,
		Status:            "payment_created",
	}))
}
