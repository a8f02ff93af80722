package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/payments"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type PaymentController struct {
	payments      *payments.Service
	webhookSecret string
}

func NewPaymentController(payments *payments.Service, webhookSecret string) *PaymentController {
	return &PaymentController{payments: payments, webhookSecret: webhookSecret}
}

// CreateTopUp godoc
// @Summary Create a coin top-up
// @Description Start a coin purchase; the returned external payment id is settled by the payment webhook
// @Tags payments
// @Accept json
// @Produce json
// @Success 201 {object} models.Payment
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/payments/topup [post]
func (pc *PaymentController) CreateTopUp(c *gin.Context) {
	var req struct {
		CoinAmount int64 `json:"coin_amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	payment, err := pc.payments.CreateTopUp(c.GetUint("userID"), req.CoinAmount)
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// Webhook consumes payment-processor events. The shared-secret header check
// stands in for processor signature verification, which lives outside this
// service.
func (pc *PaymentController) Webhook(c *gin.Context) {
	if pc.webhookSecret != "" {
		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(pc.webhookSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "invalid webhook secret"))
			return
		}
	}

	var ev payments.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	if err := pc.payments.HandleEvent(ev); err != nil {
		svcErr := models.AsServiceError(err)
		log.WithError(err).WithField("external_payment_id", ev.ExternalPaymentID).Error("Webhook processing failed")
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
