package wallet

import (
	"testing"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Wallet{}, &models.WalletTransaction{})
	require.NoError(t, err)

	return db
}

func TestGetBalanceCreatesWalletLazily(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	wallet, err := svc.GetBalance(42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), wallet.UserID)
	assert.Equal(t, int64(0), wallet.Balance)
	assert.False(t, wallet.Locked)

	// Second call returns the same wallet, not a new one
	again, err := svc.GetBalance(42)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID)

	var count int64
	db.Model(&models.Wallet{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBalanceEqualsLedgerSum(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 500, EntryParams{Type: models.TxDeposit, Description: "top up"})
	require.NoError(t, err)
	_, err = svc.Credit(1, 250, EntryParams{Type: models.TxBonus, Description: "signup bonus"})
	require.NoError(t, err)
	balance, err := svc.Debit(1, 300, EntryParams{Type: models.TxWithdrawal, Description: "cash out"})
	require.NoError(t, err)
	assert.Equal(t, int64(450), balance)

	wallet, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(450), wallet.Balance)
	assert.Equal(t, int64(750), wallet.LifetimeEarned)
	assert.Equal(t, int64(300), wallet.LifetimeSpent)

	var sum int64
	db.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", wallet.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum)
	assert.Equal(t, wallet.Balance, sum)
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 1000, EntryParams{Type: models.TxDeposit})
	require.NoError(t, err)

	_, err = svc.Debit(1, 1500, EntryParams{Type: models.TxWithdrawal})
	require.Error(t, err)
	svcErr := models.AsServiceError(err)
	assert.Equal(t, models.ErrInsufficientBalance, svcErr.Code)
	assert.Equal(t, int64(1500), svcErr.Details["required"])
	assert.Equal(t, int64(1000), svcErr.Details["available"])

	// Balance untouched, no ledger entry written for the failed debit
	wallet, err := svc.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), wallet.Balance)

	var entries int64
	db.Model(&models.WalletTransaction{}).Count(&entries)
	assert.Equal(t, int64(1), entries)
}

func TestDebitMissingWallet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Debit(99, 10, EntryParams{Type: models.TxWithdrawal})
	require.Error(t, err)
	assert.Equal(t, models.ErrWalletNotFound, models.AsServiceError(err).Code)
}

func TestLockedWalletBlocksDebitsNotCredits(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 500, EntryParams{Type: models.TxDeposit})
	require.NoError(t, err)
	require.NoError(t, svc.SetLocked(1, true))

	_, err = svc.Debit(1, 100, EntryParams{Type: models.TxWithdrawal})
	require.Error(t, err)
	assert.Equal(t, models.ErrWalletLocked, models.AsServiceError(err).Code)

	balance, err := svc.Credit(1, 200, EntryParams{Type: models.TxBonus})
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)

	require.NoError(t, svc.SetLocked(1, false))
	balance, err = svc.Debit(1, 100, EntryParams{Type: models.TxWithdrawal})
	require.NoError(t, err)
	assert.Equal(t, int64(600), balance)
}

func TestSetLockedMissingWallet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	err := svc.SetLocked(99, true)
	require.Error(t, err)
	assert.Equal(t, models.ErrWalletNotFound, models.AsServiceError(err).Code)
}

func TestInvalidAmounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 0, EntryParams{Type: models.TxDeposit})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidAmount, models.AsServiceError(err).Code)

	_, err = svc.Debit(1, -5, EntryParams{Type: models.TxWithdrawal})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidAmount, models.AsServiceError(err).Code)
}

func TestTransfer(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 500, EntryParams{Type: models.TxDeposit})
	require.NoError(t, err)

	require.NoError(t, svc.Transfer(1, 2, 200, "rent"))

	from, err := svc.GetBalance(1)
	require.NoError(t, err)
	to, err := svc.GetBalance(2)
	require.NoError(t, err)
	assert.Equal(t, int64(300), from.Balance)
	assert.Equal(t, int64(200), to.Balance)

	// Both legs carry the same reference id
	var entries []models.WalletTransaction
	require.NoError(t, db.Where("reference_type = ?", "transfer").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].ReferenceID, entries[1].ReferenceID)
}

func TestTransferInsufficientFundsTouchesNeither(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 100, EntryParams{Type: models.TxDeposit})
	require.NoError(t, err)
	_, err = svc.Credit(2, 50, EntryParams{Type: models.TxDeposit})
	require.NoError(t, err)

	err = svc.Transfer(1, 2, 500, "too much")
	require.Error(t, err)
	assert.Equal(t, models.ErrInsufficientBalance, models.AsServiceError(err).Code)

	from, _ := svc.GetBalance(1)
	to, _ := svc.GetBalance(2)
	assert.Equal(t, int64(100), from.Balance)
	assert.Equal(t, int64(50), to.Balance)

	var entries int64
	db.Model(&models.WalletTransaction{}).Where("reference_type = ?", "transfer").Count(&entries)
	assert.Equal(t, int64(0), entries)
}

func TestTransferToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	err := svc.Transfer(1, 1, 10, "loop")
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidTransfer, models.AsServiceError(err).Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Credit(1, 100, EntryParams{Type: models.TxDeposit, Description: "first"})
	require.NoError(t, err)
	_, err = svc.Credit(1, 200, EntryParams{Type: models.TxDeposit, Description: "second"})
	require.NoError(t, err)
	_, err = svc.Debit(1, 50, EntryParams{Type: models.TxWithdrawal, Description: "third"})
	require.NoError(t, err)

	entries, err := svc.History(1, 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Description)
	assert.Equal(t, "second", entries[1].Description)

	rest, err := svc.History(1, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "first", rest[0].Description)
}
