package controllers

import (
	"net/http"

	"github.com/Jaydub333/social-wallet-api2/internal/auth"
	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/gin-gonic/gin"
)

// OAuthController exposes the authorization broker over the OAuth-style
// wire contract: /oauth/authorize, /oauth/token, /oauth/revoke and
// /oauth/userinfo.
type OAuthController struct {
	broker *auth.Broker
}

func NewOAuthController(broker *auth.Broker) *OAuthController {
	return &OAuthController{broker: broker}
}

// Authorize godoc
// @Summary Authorization endpoint
// @Description Issue an authorization code for a client on behalf of the logged-in user
// @Tags OAuth2
// @Produce json
// @Param client_id query string true "Client ID"
// @Param redirect_uri query string true "Redirect URI"
// @Param scope query string true "Space-separated scopes"
// @Param state query string false "Opaque client state, echoed back unmodified"
// @Success 302
// @Failure 400 {object} models.APIError
// @Router /oauth/authorize [get]
func (oc *OAuthController) Authorize(c *gin.Context) {
	req := auth.AuthorizeRequest{
		ClientID:    c.Query("client_id"),
		RedirectURI: c.Query("redirect_uri"),
		Scope:       c.Query("scope"),
		State:       c.Query("state"),
	}
	if userID, exists := c.Get("userID"); exists {
		if uid, ok := userID.(uint); ok {
			req.UserID = uid
		}
	}

	result, err := oc.broker.InitiateAuthorization(req)
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}

	if result.LoginRequired {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":       "login_required",
			"client_name": result.ClientName,
		})
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

// Token godoc
// @Summary Token endpoint
// @Description Exchange an authorization code or refresh token for an access token
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "authorization_code or refresh_token"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string false "Client secret (authorization_code grant)"
// @Param code formData string false "Authorization code"
// @Param redirect_uri formData string false "Redirect URI the code was issued for"
// @Param refresh_token formData string false "Refresh token (refresh_token grant)"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.APIError
// @Router /oauth/token [post]
func (oc *OAuthController) Token(c *gin.Context) {
	grantType := c.PostForm("grant_type")

	switch grantType {
	case "authorization_code":
		oc.exchangeCode(c)
	case "refresh_token":
		oc.exchangeRefreshToken(c)
	default:
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrOAuthUnsupportedGrantType,
			"grant_type must be authorization_code or refresh_token"))
	}
}

func (oc *OAuthController) exchangeCode(c *gin.Context) {
	token, err := oc.broker.ExchangeCode(
		c.PostForm("client_id"),
		c.PostForm("client_secret"),
		c.PostForm("code"),
		c.PostForm("redirect_uri"),
	)
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, token)
}

func (oc *OAuthController) exchangeRefreshToken(c *gin.Context) {
	token, err := oc.broker.ExchangeRefreshToken(
		c.PostForm("client_id"),
		c.PostForm("refresh_token"),
	)
	if err != nil {
		svcErr := models.AsServiceError(err)
		c.JSON(svcErr.Status, svcErr.APIError())
		return
	}
	c.JSON(http.StatusOK, token)
}

// Revoke deletes the token pair matching the submitted value. Revoking an
// unknown token still returns 200, per RFC 7009.
func (oc *OAuthController) Revoke(c *gin.Context) {
	token := c.PostForm("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrOAuthInvalidRequest, "token parameter is required"))
		return
	}

	if err := oc.broker.RevokeToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "revocation failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// UserInfo resolves the bearer access token set by AccessTokenAuth into the
// user/client/scope triple.
func (oc *OAuthController) UserInfo(c *gin.Context) {
	scopes, _ := c.Get("scopes")
	c.JSON(http.StatusOK, gin.H{
		"user_id":   c.GetUint("userID"),
		"client_id": c.GetString("clientID"),
		"scopes":    scopes,
	})
}
