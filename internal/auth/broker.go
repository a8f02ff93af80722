package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	codeTTL  = 10 * time.Minute
	tokenTTL = time.Hour
)

// Broker implements the authorization-code grant against the relational
// store: it issues short-lived single-use codes on behalf of a logged-in
// user and exchanges them (or refresh tokens) for access/refresh pairs.
type Broker struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBroker creates a Broker over the given database handle
func NewBroker(db *gorm.DB) *Broker {
	return &Broker{db: db, now: time.Now}
}

// AuthorizeRequest carries the parameters of an authorize call. UserID is
// zero when no authenticated user context is present.
type AuthorizeRequest struct {
	ClientID    string
	RedirectURI string
	Scope       string
	State       string
	UserID      uint
}

// AuthorizeResult is the outcome of InitiateAuthorization. When
// LoginRequired is set the caller must authenticate the user and re-invoke;
// ClientName is included so the login page can show who is asking.
type AuthorizeResult struct {
	LoginRequired bool   `json:"login_required,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	Code          string `json:"code,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

// TokenResponse is the OAuth-style token endpoint payload
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// TokenInfo is the result of validating a bearer access token
type TokenInfo struct {
	UserID   uint
	ClientID string
	Scopes   []string
}

// InitiateAuthorization validates the client and redirect URI, then issues a
// ten-minute single-use authorization code bound to the requesting client,
// the redirect URI and the granted scope set. The state parameter is echoed
// back unmodified in the redirect URL.
func (b *Broker) InitiateAuthorization(req AuthorizeRequest) (*AuthorizeResult, error) {
	var client models.Client
	if err := b.db.Where("id = ?", req.ClientID).First(&client).Error; err != nil {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidClient, "unknown client")
	}
	if !client.Active {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidClient, "client is inactive")
	}

	if !client.AllowsRedirectURI(req.RedirectURI) {
		return nil, models.NewServiceError(http.StatusBadRequest, models.ErrInvalidRedirectURI, "redirect_uri is not registered for this client")
	}

	scopes, err := ParseScopes(req.Scope)
	if err != nil {
		return nil, err
	}

	if req.UserID == 0 {
		return &AuthorizeResult{LoginRequired: true, ClientName: client.Name}, nil
	}

	code, err := NewRandomValue()
	if err != nil {
		return nil, err
	}

	authCode := &models.AuthorizationCode{
		Code:        code,
		ClientID:    client.ID,
		UserID:      req.UserID,
		Scopes:      JoinScopes(scopes),
		RedirectURI: req.RedirectURI,
		ExpiresAt:   b.now().Add(codeTTL),
	}
	if err := b.db.Create(authCode).Error; err != nil {
		return nil, err
	}

	redirectURL := req.RedirectURI + "?code=" + url.QueryEscape(code)
	if req.State != "" {
		redirectURL += "&state=" + url.QueryEscape(req.State)
	}

	log.WithFields(log.Fields{
		"client_id": client.ID,
		"user_id":   req.UserID,
		"scopes":    authCode.Scopes,
	}).Debug("Authorization code issued")

	return &AuthorizeResult{Code: code, RedirectURL: redirectURL}, nil
}

// ExchangeCode validates the client credentials and the authorization code,
// then marks the code used and issues a fresh access/refresh pair. The mark
// and the token insert run in one transaction: a failure between them cannot
// leave a consumed code without a token, or a token behind a live code.
func (b *Broker) ExchangeCode(clientID, clientSecret, code, redirectURI string) (*TokenResponse, error) {
	client, err := b.authenticateClient(clientID, clientSecret)
	if err != nil {
		return nil, err
	}
	if !client.SubscriptionActive {
		return nil, models.NewServiceError(http.StatusForbidden, models.ErrSubscriptionInactive, "client subscription is not active")
	}

	var authCode models.AuthorizationCode
	if err := b.db.Where("code = ?", code).First(&authCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidCode, "authorization code not found")
		}
		return nil, err
	}

	if authCode.Used {
		return nil, models.NewServiceError(http.StatusConflict, models.ErrCodeAlreadyUsed, "authorization code has already been used")
	}
	if authCode.Expired(b.now()) {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrCodeExpired, "authorization code has expired")
	}
	// Anti-substitution check: both values must match byte-for-byte what was
	// recorded when the code was issued.
	if authCode.ClientID != clientID || authCode.RedirectURI != redirectURI {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrCodeValidationFailed, "code was not issued to this client and redirect_uri")
	}

	accessValue, err := NewRandomValue()
	if err != nil {
		return nil, err
	}
	refreshValue, err := NewRandomValue()
	if err != nil {
		return nil, err
	}

	token := &models.AccessToken{
		ClientID:     client.ID,
		UserID:       authCode.UserID,
		AccessValue:  accessValue,
		RefreshValue: refreshValue,
		Scopes:       authCode.Scopes,
		ExpiresAt:    b.now().Add(tokenTTL),
	}

	err = b.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AuthorizationCode{}).
			Where("code = ? AND used = ?", authCode.Code, false).
			Update("used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewServiceError(http.StatusConflict, models.ErrCodeAlreadyUsed, "authorization code has already been used")
		}
		return tx.Create(token).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"client_id": client.ID,
		"user_id":   authCode.UserID,
	}).Info("Authorization code exchanged for access token")

	return tokenResponse(token), nil
}

// ExchangeRefreshToken rotates the access/refresh values of an existing
// token record in place, preserving the original scope set. The old pair
// becomes invalid immediately.
func (b *Broker) ExchangeRefreshToken(clientID, refreshToken string) (*TokenResponse, error) {
	var token models.AccessToken
	if err := b.db.Where("refresh_value = ?", refreshToken).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidRefreshToken, "refresh token not found")
		}
		return nil, err
	}
	if token.ClientID != clientID {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidRefreshToken, "refresh token was not issued to this client")
	}

	accessValue, err := NewRandomValue()
	if err != nil {
		return nil, err
	}
	refreshValue, err := NewRandomValue()
	if err != nil {
		return nil, err
	}

	token.AccessValue = accessValue
	token.RefreshValue = refreshValue
	token.ExpiresAt = b.now().Add(tokenTTL)
	if err := b.db.Save(&token).Error; err != nil {
		return nil, err
	}

	return tokenResponse(&token), nil
}

// ValidateAccessToken resolves a bearer access token into the user, client
// and scopes it was granted for.
func (b *Broker) ValidateAccessToken(accessToken string) (*TokenInfo, error) {
	var token models.AccessToken
	if err := b.db.Where("access_value = ?", accessToken).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidAccessToken, "access token not found")
		}
		return nil, err
	}
	if token.Expired(b.now()) {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrTokenExpired, "access token has expired")
	}

	var user models.User
	if err := b.db.First(&user, token.UserID).Error; err != nil || !user.Active {
		return nil, models.NewServiceError(http.StatusForbidden, models.ErrInactiveAccount, "account is deactivated")
	}
	var client models.Client
	if err := b.db.Where("id = ?", token.ClientID).First(&client).Error; err != nil || !client.Active {
		return nil, models.NewServiceError(http.StatusForbidden, models.ErrInactiveAccount, "client is deactivated")
	}

	return &TokenInfo{
		UserID:   token.UserID,
		ClientID: token.ClientID,
		Scopes:   SplitScopes(token.Scopes),
	}, nil
}

// RevokeToken deletes the token record matching the given access or refresh
// value. Revoking an unknown token is a no-op.
func (b *Broker) RevokeToken(value string) error {
	return b.db.Where("access_value = ? OR refresh_value = ?", value, value).
		Delete(&models.AccessToken{}).Error
}

// authenticateClient loads the client and verifies its secret against the
// stored bcrypt hash.
func (b *Broker) authenticateClient(clientID, clientSecret string) (*models.Client, error) {
	var client models.Client
	if err := b.db.Where("id = ?", clientID).First(&client).Error; err != nil {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidClientCredentials, "invalid client credentials")
	}
	if !client.Active {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidClientCredentials, "invalid client credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.Secret), []byte(clientSecret)); err != nil {
		return nil, models.NewServiceError(http.StatusUnauthorized, models.ErrInvalidClientCredentials, "invalid client credentials")
	}
	return &client, nil
}

func tokenResponse(token *models.AccessToken) *TokenResponse {
	return &TokenResponse{
		AccessToken:  token.AccessValue,
		TokenType:    "Bearer",
		ExpiresIn:    int64(tokenTTL.Seconds()),
		RefreshToken: token.RefreshValue,
		Scope:        token.Scopes,
	}
}
