package middleware

import (
	"net/http"

	"github.com/Jaydub333/social-wallet-api2/internal/auth"
	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/gin-gonic/gin"
)

// AccessTokenAuth validates an opaque bearer access token issued by the
// authorization broker and sets the resolved user, client and scopes in the
// request context. Used by the data-sharing endpoints third-party platforms
// call on a user's behalf.
func AccessTokenAuth(broker *auth.Broker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		info, err := broker.ValidateAccessToken(tokenString)
		if err != nil {
			svcErr := models.AsServiceError(err)
			c.JSON(svcErr.Status, svcErr.APIError())
			c.Abort()
			return
		}

		c.Set("userID", info.UserID)
		c.Set("clientID", info.ClientID)
		c.Set("scopes", info.Scopes)
		c.Set("auth_type", "access_token")
		c.Next()
	}
}

// RequireScope rejects access-token requests whose granted scope set does
// not contain the named scope.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopes, exists := c.Get("scopes")
		if !exists {
			c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "no scopes granted"))
			c.Abort()
			return
		}

		granted, ok := scopes.([]string)
		if !ok {
			c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "invalid scope format"))
			c.Abort()
			return
		}

		for _, s := range granted {
			if s == scope {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "insufficient scope", map[string]interface{}{
			"required_scope": scope,
		}))
		c.Abort()
	}
}
