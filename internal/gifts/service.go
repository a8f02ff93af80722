package gifts

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/wallet"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// socialWalletFeeRate is the platform-wide cut taken on every gift send
const socialWalletFeeRate = 0.015

const (
	minQuantity = 1
	maxQuantity = 100
)

// Service owns the gift catalog and the composed gift-send flow: two ledger
// movements, the audit record and the stock increment commit as one unit.
type Service struct {
	db      *gorm.DB
	wallets *wallet.Service
}

// NewService creates a gift Service over the given database handle
func NewService(db *gorm.DB, wallets *wallet.Service) *Service {
	return &Service{db: db, wallets: wallets}
}

// ListGifts returns active catalog entries, optionally filtered to those
// available on the given platform.
func (s *Service) ListGifts(platformClientID string) ([]models.Gift, error) {
	var gifts []models.Gift
	q := s.db.Where("active = ?", true)
	if platformClientID != "" {
		q = q.Where("exclusive_client_id = ? OR exclusive_client_id = ?", "", platformClientID)
	}
	if err := q.Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

// GetGift returns a single catalog entry by id
func (s *Service) GetGift(id uint) (*models.Gift, error) {
	var gift models.Gift
	if err := s.db.First(&gift, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewServiceError(http.StatusNotFound, models.ErrGiftNotFound, "gift not found")
		}
		return nil, err
	}
	return &gift, nil
}

// CreateGift adds a catalog entry (admin)
func (s *Service) CreateGift(gift *models.Gift) error {
	return s.db.Create(gift).Error
}

// UpdateGift saves changes to a catalog entry (admin)
func (s *Service) UpdateGift(gift *models.Gift) error {
	return s.db.Save(gift).Error
}

// SendGift debits the sender, credits the receiver minus fees, writes the
// audit record and (for limited gifts) increments the sold count. All four
// writes commit in one transaction.
//
// Fee arithmetic: each fee is rounded independently, so under some inputs
// total != platform_fee + social_wallet_fee + receiver_credit by ±1 coin.
// Downstream reconciliation depends on this exact behavior; do not change it.
func (s *Service) SendGift(senderID, receiverID, giftID uint, quantity int, platformClientID string) (*models.GiftTransaction, error) {
	if senderID == receiverID {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidRecipient, "cannot send a gift to yourself")
	}
	if quantity < minQuantity || quantity > maxQuantity {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidQuantity,
			fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity))
	}

	gift, err := s.GetGift(giftID)
	if err != nil {
		return nil, err
	}
	if !gift.Active {
		return nil, models.NewServiceError(http.StatusNotFound, models.ErrGiftNotFound, "gift is no longer available")
	}
	if gift.ExclusiveClientID != "" && gift.ExclusiveClientID != platformClientID {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrGiftNotAvailable, "gift is exclusive to another platform")
	}
	if gift.Limited && gift.Remaining() < int64(quantity) {
		return nil, models.NewServiceError(http.StatusConflict, models.ErrInsufficientQuantity, "not enough stock remaining").
			WithDetails(map[string]interface{}{
				"requested": quantity,
				"remaining": gift.Remaining(),
			})
	}

	revenueShare := 0.10
	if platformClientID != "" {
		var client models.Client
		if err := s.db.Where("id = ?", platformClientID).First(&client).Error; err == nil {
			revenueShare = client.RevenueShare()
		}
	}

	total := gift.CoinPrice * int64(quantity)
	platformFee := roundFee(total, revenueShare)
	socialWalletFee := roundFee(total, socialWalletFeeRate)
	senderDebit := total + socialWalletFee
	receiverCredit := total - platformFee - socialWalletFee

	giftTx := &models.GiftTransaction{
		ID:               uuid.New().String(),
		SenderID:         senderID,
		ReceiverID:       receiverID,
		GiftID:           gift.ID,
		Quantity:         quantity,
		TotalCoins:       total,
		PlatformFee:      platformFee,
		SocialWalletFee:  socialWalletFee,
		ReceiverCredit:   receiverCredit,
		PlatformClientID: platformClientID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if gift.Limited {
			res := tx.Model(&models.Gift{}).
				Where("id = ? AND sold_count + ? <= quantity_cap", gift.ID, quantity).
				Update("sold_count", gorm.Expr("sold_count + ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewServiceError(http.StatusConflict, models.ErrInsufficientQuantity, "not enough stock remaining")
			}
		}

		if _, err := s.wallets.DebitTx(tx, senderID, senderDebit, wallet.EntryParams{
			Type:          models.TxGiftSent,
			Description:   fmt.Sprintf("Sent %s x%d", gift.Name, quantity),
			ReferenceType: "gift_transaction",
			ReferenceID:   giftTx.ID,
		}); err != nil {
			return err
		}

		if _, err := s.wallets.CreditTx(tx, receiverID, receiverCredit, wallet.EntryParams{
			Type:          models.TxGiftReceived,
			Description:   fmt.Sprintf("Received %s x%d", gift.Name, quantity),
			ReferenceType: "gift_transaction",
			ReferenceID:   giftTx.ID,
		}); err != nil {
			return err
		}

		return tx.Create(giftTx).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"gift_tx":      giftTx.ID,
		"sender_id":    senderID,
		"receiver_id":  receiverID,
		"total":        total,
		"platform_fee": platformFee,
	}).Info("Gift sent")

	return giftTx, nil
}

func roundFee(total int64, rate float64) int64 {
	return int64(math.Round(float64(total) * rate))
}
