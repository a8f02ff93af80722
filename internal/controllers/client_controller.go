package controllers

import (
	"net/http"
	"strconv"

	"github.com/Jaydub333/social-wallet-api2/internal/billing"
	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/Jaydub333/social-wallet-api2/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ClientController struct {
	clientService services.ClientService
	billing       *billing.Sweeper
}

func NewClientController(clientService services.ClientService, billing *billing.Sweeper) *ClientController {
	return &ClientController{clientService: clientService, billing: billing}
}

// CreateClient godoc
// @Summary Register a platform client
// @Description Register a third-party platform; returns the client secret exactly once
// @Tags clients
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{} "Client created with client_id and client_secret"
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/clients [post]
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req struct {
		Name             string `json:"name" binding:"required"`
		RedirectURIs     string `json:"redirect_uris" binding:"required"`
		Scopes           string `json:"scopes"`
		SubscriptionPlan string `json:"subscription_plan"`
		RevenueShareBps  int    `json:"platform_revenue_share_bps"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrValidationFailed, err.Error()))
		return
	}

	// Generate client secret
	secret := uuid.New().String()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "secret generation failed"))
		return
	}

	revenueShareBps := req.RevenueShareBps
	if revenueShareBps <= 0 {
		revenueShareBps = 1000
	}

	client := &models.Client{
		ID:                      uuid.New().String(),
		Secret:                  string(hashedSecret),
		Name:                    req.Name,
		RedirectURIs:            req.RedirectURIs,
		Scopes:                  req.Scopes,
		Active:                  true,
		SubscriptionPlan:        req.SubscriptionPlan,
		SubscriptionActive:      true,
		PlatformRevenueShareBps: revenueShareBps,
		UserID:                  c.GetUint("userID"),
	}

	if err := cc.clientService.CreateClient(client); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "client creation failed"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"client_id":     client.ID,
		"client_secret": secret, // Return plain secret only once
		"name":          client.Name,
		"scopes":        client.Scopes,
		"redirect_uris": client.RedirectURIs,
	})
}

// ListClients godoc
// @Summary List platform clients
// @Description Get all clients owned by the authenticated user
// @Tags clients
// @Produce json
// @Success 200 {array} models.Client
// @Security BearerAuth
// @Router /api/v1/protected/clients [get]
func (cc *ClientController) ListClients(c *gin.Context) {
	userID := c.GetUint("userID")
	clients, err := cc.clientService.GetClientsByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "failed to retrieve clients"))
		return
	}

	c.JSON(http.StatusOK, clients)
}

// DeleteClient godoc
// @Summary Delete a platform client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 204
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/protected/clients/{id} [delete]
func (cc *ClientController) DeleteClient(c *gin.Context) {
	clientID := c.Param("id")
	userID := c.GetUint("userID")

	if err := cc.clientService.DeleteClient(clientID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "client not found"))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// RenewSubscription extends a client's billing period (admin)
func (cc *ClientController) RenewSubscription(c *gin.Context) {
	clientID := c.Param("id")

	months, err := strconv.Atoi(c.DefaultQuery("months", "1"))
	if err != nil || months < 1 {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "months must be a positive integer"))
		return
	}

	if err := cc.billing.Renew(clientID, months); err != nil {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrNotFound, "client not found"))
		return
	}

	client, err := cc.clientService.GetClientByID(clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "failed to reload client"))
		return
	}
	c.JSON(http.StatusOK, client)
}
