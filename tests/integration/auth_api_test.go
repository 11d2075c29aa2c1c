//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_manager/internal/handler"
	"user_manager/internal/user"
)

func TestAuthAPI_LoginFlow(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	gin.SetMode(gin.TestMode)
	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	seedUser(t, env, "simon", "Pass@W0rd", "simon@smile.com", "ROLE_USER")

	t.Run("Login_Success", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/login", "", map[string]string{
			"username": "simon",
			"password": "Pass@W0rd",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		result := envelope(t, w)
		assert.Equal(t, true, result["flag"])
		assert.Equal(t, "Login success", result["message"])

		data := result["data"].(map[string]any)
		assert.NotEmpty(t, data["access_token"])
		assert.NotEmpty(t, data["refresh_token"])
		assert.Equal(t, float64(900), data["expires_in"])
	})

	t.Run("Login_WrongPassword", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/login", "", map[string]string{
			"username": "simon",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		result := envelope(t, w)
		assert.Equal(t, false, result["flag"])
		assert.Equal(t, "username or password is incorrect", result["message"])
	})

	t.Run("Login_UnknownUser", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/login", "", map[string]string{
			"username": "nobody",
			"password": "Pass@W0rd",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		result := envelope(t, w)
		assert.Equal(t, "username or password is incorrect", result["message"])
	})

	t.Run("Login_MissingCredentials", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/login", "", map[string]string{
			"username": "simon",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		result := envelope(t, w)
		assert.Equal(t, "username and password are mandatory", result["message"])
	})
}

func TestAuthAPI_DisabledAccount(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	gin.SetMode(gin.TestMode)
	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	service := user.NewUserService(user.NewUserRepository(), env.DB)
	_, err := service.Create(&user.AppUser{
		Username: "owen", Nickname: "owen", Password: "Pass@W0rd",
		Email: "owen@example.com", Roles: "ROLE_USER", Enabled: false,
	})
	require.NoError(t, err)

	w := doJSON(router, "POST", "/auth/login", "", map[string]string{
		"username": "owen",
		"password": "Pass@W0rd",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	result := envelope(t, w)
	assert.Equal(t, false, result["flag"])
	assert.Equal(t, "user account is abnormal", result["message"])
}

func TestAuthAPI_ProtectedEndpoints(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	gin.SetMode(gin.TestMode)
	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	t.Run("NoToken", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/users", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		result := envelope(t, w)
		assert.Equal(t, false, result["flag"])
		assert.Equal(t, "username and password are mandatory", result["message"])
	})

	t.Run("InvalidToken", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/v1/users", "not-a-token", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		result := envelope(t, w)
		assert.Equal(t,
			"The access token provided is expired, revoked, malformed, or invalid for other reasons",
			result["message"])
	})
}

func TestAuthAPI_TokenRefresh(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	gin.SetMode(gin.TestMode)
	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	seedUser(t, env, "simon", "Pass@W0rd", "simon@smile.com", "ROLE_USER")

	w := doJSON(router, "POST", "/auth/login", "", map[string]string{
		"username": "simon",
		"password": "Pass@W0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)

	loginData := envelope(t, w)["data"].(map[string]any)
	accessToken := loginData["access_token"].(string)
	refreshToken := loginData["refresh_token"].(string)

	t.Run("Refresh_Success", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/refresh", "", map[string]string{
			"refresh_token": refreshToken,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		result := envelope(t, w)
		assert.Equal(t, "Refresh token success", result["message"])

		data := result["data"].(map[string]any)
		assert.NotEmpty(t, data["access_token"])
	})

	t.Run("Refresh_RejectsAccessToken", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/refresh", "", map[string]string{
			"refresh_token": accessToken,
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh_RejectsGarbage", func(t *testing.T) {
		w := doJSON(router, "POST", "/auth/refresh", "", map[string]string{
			"refresh_token": "garbage",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthAPI_RateLimiting(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	gin.SetMode(gin.TestMode)
	router := handler.SetupHandler(env.DB, env.RedisClient, env.Config)

	seedUser(t, env, "simon", "Pass@W0rd", "simon@smile.com", "ROLE_USER")
	token := login(t, router, "simon", "Pass@W0rd")

	successCount := 0
	rateLimitedCount := 0

	// Burst past the bucket capacity
	for i := 0; i < 40; i++ {
		w := doJSON(router, "GET", "/api/v1/users", token, nil)
		switch w.Code {
		case http.StatusOK:
			successCount++
		case http.StatusTooManyRequests:
			rateLimitedCount++
		}
	}

	assert.Greater(t, successCount, 0, "some requests should succeed")
	assert.Greater(t, rateLimitedCount, 0, "some requests should be rate limited")
}
