package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func jwtTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint("userID"),
			"role":    c.GetString("userRole"),
		})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthValidToken(t *testing.T) {
	router := jwtTestRouter()
	token := signToken(t, jwt.MapClaims{
		"uid":  "7",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}, testSecret)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := jwtTestRouter()
	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongScheme(t *testing.T) {
	router := jwtTestRouter()
	w := doRequest(router, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	router := jwtTestRouter()
	token := signToken(t, jwt.MapClaims{
		"uid":  "7",
		"role": "user",
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
	}, testSecret)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	router := jwtTestRouter()
	token := signToken(t, jwt.MapClaims{
		"uid":  "7",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, []byte("other-secret"))

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMissingRole(t *testing.T) {
	router := jwtTestRouter()
	token := signToken(t, jwt.MapClaims{
		"uid": "7",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	w := doRequest(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTAuthPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/maybe", OptionalJWTAuth(testSecret), func(c *gin.Context) {
		userID := c.GetUint("userID")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	// No header at all still reaches the handler
	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	// A valid token sets identity
	token := signToken(t, jwt.MapClaims{
		"uid":  "9",
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, testSecret)
	req = httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":9`)
}

func TestRequireScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/scoped",
		func(c *gin.Context) { c.Set("scopes", []string{"profile", "media"}) },
		RequireScope("wallet"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	router.GET("/granted",
		func(c *gin.Context) { c.Set("scopes", []string{"profile", "wallet"}) },
		RequireScope("wallet"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "required_scope")

	req = httptest.NewRequest(http.MethodGet, "/granted", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
