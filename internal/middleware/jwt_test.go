package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_manager/internal/auth"
	"user_manager/internal/common"
)

const testSecret = "middleware-test-secret"

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware(testSecret))
	router.GET("/protected", func(c *gin.Context) {
		name, _ := auth.GetUsernameFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": name})
	})
	return router
}

func decodeResult(t *testing.T, body []byte) common.Result {
	t.Helper()
	var result common.Result
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	result := decodeResult(t, w.Body.Bytes())
	assert.False(t, result.Flag)
	assert.Equal(t, http.StatusUnauthorized, result.Code)
	assert.Equal(t, common.MsgMissingAuth, result.Message)
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	result := decodeResult(t, w.Body.Bytes())
	assert.False(t, result.Flag)
	assert.Equal(t, common.MsgInvalidToken, result.Message)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	router := setupAuthRouter()

	pair, err := auth.GenerateTokenPair(7, "simon", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	result := decodeResult(t, w.Body.Bytes())
	assert.Equal(t, common.MsgInvalidToken, result.Message)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := setupAuthRouter()

	pair, err := auth.GenerateTokenPair(7, "simon", testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"simon"`)
}

func TestAuthMiddleware_BadScheme(t *testing.T) {
	router := setupAuthRouter()

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	result := decodeResult(t, w.Body.Bytes())
	assert.Equal(t, common.MsgInvalidToken, result.Message)
}
