package controllers

import (
	"net/http"
	"strconv"

	"github.com/Jaydub333/social-wallet-api2/internal/gifts"
	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/gin-gonic/gin"
)

type GiftController struct {
	gifts *gifts.Service
}

func NewGiftController(gifts *gifts.Service) *GiftController {
	return &GiftController{gifts: gifts}
}

// ListGifts godoc
// @Summary List gift catalog
// @Description List active gifts, optionally filtered by platform availability
// @Tags gifts
// @Produce json
// @Param platform_client_id query string false "Platform client ID"
// @Success 200 {array} models.Gift
// @Router /api/v1/public/gifts [get]
func (gc *GiftController) ListGifts(c *gin.Context) {
	list, err := gc.gifts.ListGifts(c.Query("platform_client_id"))
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, list)
}

// SendGift godoc
// @Summary Send a gift
// @Description Send a gift to another user; the sender is debited the gift total plus the service fee
// @Tags gifts
// @Accept json
// @Produce json
// @Success 200 {object} models.GiftTransaction
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/gifts/send [post]
func (gc *GiftController) SendGift(c *gin.Context) {
	var req struct {
		ReceiverID       uint   `json:"receiver_id" binding:"required"`
		GiftID           uint   `json:"gift_id" binding:"required"`
		Quantity         int    `json:"quantity" binding:"required"`
		PlatformClientID string `json:"platform_client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	giftTx, err := gc.gifts.SendGift(c.GetUint("userID"), req.ReceiverID, req.GiftID, req.Quantity, req.PlatformClientID)
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, giftTx)
}

// CreateGift adds a catalog entry (admin)
func (gc *GiftController) CreateGift(c *gin.Context) {
	var req struct {
		Name              string `json:"name" binding:"required"`
		IconURL           string `json:"icon_url"`
		CoinPrice         int64  `json:"coin_price" binding:"required"`
		ExclusiveClientID string `json:"exclusive_client_id"`
		Limited           bool   `json:"limited"`
		QuantityCap       int64  `json:"quantity_cap"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	gift := &models.Gift{
		Name:              req.Name,
		IconURL:           req.IconURL,
		CoinPrice:         req.CoinPrice,
		Active:            true,
		ExclusiveClientID: req.ExclusiveClientID,
		Limited:           req.Limited,
		QuantityCap:       req.QuantityCap,
	}
	if err := gc.gifts.CreateGift(gift); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "gift creation failed"))
		return
	}
	c.JSON(http.StatusCreated, gift)
}

// UpdateGift updates a catalog entry (admin)
func (gc *GiftController) UpdateGift(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "invalid gift id"))
		return
	}

	gift, getErr := gc.gifts.GetGift(uint(id))
	if getErr != nil {
		svcErr := models.AsServiceError(getErr)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}

	var req struct {
		Name        *string `json:"name"`
		IconURL     *string `json:"icon_url"`
		CoinPrice   *int64  `json:"coin_price"`
		Active      *bool   `json:"active"`
		QuantityCap *int64  `json:"quantity_cap"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	if req.Name != nil {
		gift.Name = *req.Name
	}
	if req.IconURL != nil {
		gift.IconURL = *req.IconURL
	}
	if req.CoinPrice != nil {
		gift.CoinPrice = *req.CoinPrice
	}
	if req.Active != nil {
		gift.Active = *req.Active
	}
	if req.QuantityCap != nil {
		gift.QuantityCap = *req.QuantityCap
	}

	if err := gc.gifts.UpdateGift(gift); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "gift update failed"))
		return
	}
	c.JSON(http.StatusOK, gift)
}
