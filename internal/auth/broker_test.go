package auth

import (
	"testing"
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.AuthorizationCode{},
		&models.AccessToken{},
	)
	require.NoError(t, err)

	return db
}

func createTestClient(t *testing.T, db *gorm.DB, secret string) *models.Client {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	require.NoError(t, err)

	client := &models.Client{
		ID:                      "test-client",
		Name:                    "Test Platform",
		Secret:                  string(hashed),
		RedirectURIs:            "https://platform.example/callback,https://platform.example/alt",
		Scopes:                  "profile media",
		Active:                  true,
		SubscriptionActive:      true,
		SubscriptionPeriodEnd:   time.Now().AddDate(0, 1, 0),
		PlatformRevenueShareBps: 1000,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	user := &models.User{
		Email:    "user@example.com",
		Password: "irrelevant",
		Role:     "user",
		Active:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestInitiateAuthorizationLoginRequired(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	broker := NewBroker(db)

	result, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "test-client",
		RedirectURI: "https://platform.example/callback",
		Scope:       "profile",
	})
	require.NoError(t, err)
	assert.True(t, result.LoginRequired)
	assert.Equal(t, "Test Platform", result.ClientName)
	assert.Empty(t, result.Code)
}

func TestInitiateAuthorizationUnknownClient(t *testing.T) {
	db := setupTestDB(t)
	broker := NewBroker(db)

	_, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "nope",
		RedirectURI: "https://platform.example/callback",
		Scope:       "profile",
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidClient, models.AsServiceError(err).Code)
}

func TestInitiateAuthorizationRedirectURINotAllowed(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	broker := NewBroker(db)

	_, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "test-client",
		RedirectURI: "https://evil.example/callback",
		Scope:       "profile",
		UserID:      1,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidRedirectURI, models.AsServiceError(err).Code)
}

func TestInitiateAuthorizationRejectsUnknownScope(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	broker := NewBroker(db)

	_, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "test-client",
		RedirectURI: "https://platform.example/callback",
		Scope:       "profile superpowers",
		UserID:      1,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidScope, models.AsServiceError(err).Code)
}

func TestInitiateAuthorizationEchoesState(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	result, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "test-client",
		RedirectURI: "https://platform.example/callback",
		Scope:       "profile",
		State:       "xyz123",
		UserID:      user.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Code)
	assert.Contains(t, result.RedirectURL, "code=")
	assert.Contains(t, result.RedirectURL, "state=xyz123")
}

func issueCode(t *testing.T, broker *Broker, userID uint, scope string) string {
	result, err := broker.InitiateAuthorization(AuthorizeRequest{
		ClientID:    "test-client",
		RedirectURI: "https://platform.example/callback",
		Scope:       scope,
		UserID:      userID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Code)
	return result.Code
}

func TestExchangeCodeSingleUse(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")

	token, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
	assert.Equal(t, "profile", token.Scope)
	assert.NotEmpty(t, token.AccessToken)
	assert.NotEmpty(t, token.RefreshToken)

	// Second exchange of the same code must fail and must not mint a token
	_, err = broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeAlreadyUsed, models.AsServiceError(err).Code)

	var tokenCount int64
	db.Model(&models.AccessToken{}).Count(&tokenCount)
	assert.Equal(t, int64(1), tokenCount)
}

func TestExchangeCodeExpired(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")

	// Move the broker clock past the ten-minute window
	broker.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeExpired, models.AsServiceError(err).Code)
}

func TestExchangeCodeWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")

	_, err := broker.ExchangeCode("test-client", "wrong", code, "https://platform.example/callback")
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidClientCredentials, models.AsServiceError(err).Code)
}

func TestExchangeCodeRedirectURIMismatch(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")

	// The alternate URI is in the allow-list but is not what the code was
	// issued for, so the anti-substitution check must reject it.
	_, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/alt")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeValidationFailed, models.AsServiceError(err).Code)
}

func TestExchangeCodeSubscriptionInactive(t *testing.T) {
	db := setupTestDB(t)
	client := createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")

	require.NoError(t, db.Model(client).Update("subscription_active", false).Error)

	_, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.Error(t, err)
	assert.Equal(t, models.ErrSubscriptionInactive, models.AsServiceError(err).Code)
}

func TestRefreshTokenRotatesInPlace(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile media")
	first, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)

	second, err := broker.ExchangeRefreshToken("test-client", first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, "profile media", second.Scope)

	// The old pair is gone, replaced on the same record
	var tokenCount int64
	db.Model(&models.AccessToken{}).Count(&tokenCount)
	assert.Equal(t, int64(1), tokenCount)

	_, err = broker.ValidateAccessToken(first.AccessToken)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidAccessToken, models.AsServiceError(err).Code)

	_, err = broker.ExchangeRefreshToken("test-client", first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidRefreshToken, models.AsServiceError(err).Code)
}

func TestValidateAccessToken(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")
	token, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)

	info, err := broker.ValidateAccessToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, info.UserID)
	assert.Equal(t, "test-client", info.ClientID)
	assert.Equal(t, []string{"profile"}, info.Scopes)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")
	token, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)

	broker.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = broker.ValidateAccessToken(token.AccessToken)
	require.Error(t, err)
	assert.Equal(t, models.ErrTokenExpired, models.AsServiceError(err).Code)
}

func TestValidateAccessTokenInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")
	token, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("active", false).Error)

	_, err = broker.ValidateAccessToken(token.AccessToken)
	require.Error(t, err)
	assert.Equal(t, models.ErrInactiveAccount, models.AsServiceError(err).Code)
}

func TestRevokeTokenIdempotent(t *testing.T) {
	db := setupTestDB(t)
	createTestClient(t, db, "s3cret")
	user := createTestUser(t, db)
	broker := NewBroker(db)

	code := issueCode(t, broker, user.ID, "profile")
	token, err := broker.ExchangeCode("test-client", "s3cret", code, "https://platform.example/callback")
	require.NoError(t, err)

	require.NoError(t, broker.RevokeToken(token.AccessToken))
	_, err = broker.ValidateAccessToken(token.AccessToken)
	require.Error(t, err)

	// Revoking again is a no-op
	require.NoError(t, broker.RevokeToken(token.AccessToken))
	require.NoError(t, broker.RevokeToken("never-existed"))
}

func TestParseScopesDeduplicates(t *testing.T) {
	scopes, err := ParseScopes("profile profile media")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile", "media"}, scopes)
}

func TestNewRandomValueUnique(t *testing.T) {
	a, err := NewRandomValue()
	require.NoError(t, err)
	b, err := NewRandomValue()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 43) // 32 bytes base64url
}
