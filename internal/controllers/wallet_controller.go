package controllers

import (
	"net/http"
	"strconv"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/wallet"
	"github.com/gin-gonic/gin"
)

type WalletController struct {
	wallets *wallet.Service
}

func NewWalletController(wallets *wallet.Service) *WalletController {
	return &WalletController{wallets: wallets}
}

// GetBalance godoc
// @Summary Get wallet balance
// @Description Get the authenticated user's coin balance and lifetime totals
// @Tags wallet
// @Produce json
// @Success 200 {object} models.Wallet
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/wallet [get]
func (wc *WalletController) GetBalance(c *gin.Context) {
	w, err := wc.wallets.GetBalance(c.GetUint("userID"))
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, w)
}

// GetHistory godoc
// @Summary Get wallet transaction history
// @Description List the authenticated user's ledger entries, newest first
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.WalletTransaction
// @Security BearerAuth
// @Router /api/v1/protected/wallet/transactions [get]
func (wc *WalletController) GetHistory(c *gin.Context) {
	pageLimit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || pageLimit < 1 || pageLimit > 200 {
		pageLimit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	entries, svcErr := wc.history(c.GetUint("userID"), pageLimit, offset)
	if svcErr != nil {
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (wc *WalletController) history(userID uint, limit, offset int) ([]models.WalletTransaction, *models.ServiceError) {
	entries, err := wc.wallets.History(userID, limit, offset)
	if err != nil {
		return nil, models.AsServiceError(err)
	}
	return entries, nil
}

// Transfer moves coins from the authenticated user to another user
func (wc *WalletController) Transfer(c *gin.Context) {
	var req struct {
		ToUserID    uint   `json:"to_user_id" binding:"required"`
		Amount      int64  `json:"amount" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	if err := wc.wallets.Transfer(c.GetUint("userID"), req.ToUserID, req.Amount, req.Description); err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"transferred": req.Amount})
}

// SetLock flips the wallet lock flag (admin). Locked wallets refuse debits.
func (wc *WalletController) SetLock(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "invalid user id"))
		return
	}

	var req struct {
		Locked *bool `json:"locked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	if err := wc.wallets.SetLocked(uint(userID), *req.Locked); err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "locked": *req.Locked})
}
