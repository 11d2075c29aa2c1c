package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims carry the principal's id and username. The username is what
// current_user resolution keys on.
type Claims struct {
	UserID   int       `json:"user_id"`
	Username string    `json:"username"`
	Type     TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// GenerateTokenPair creates both access and refresh tokens
func GenerateTokenPair(userID int, username string, secret string) (*TokenPair, error) {
	// Access token (15 minutes)
	accessToken, err := generateToken(userID, username, AccessToken, 15*time.Minute, secret)
	if err != nil {
		return nil, err
	}

	// Refresh token (7 days)
	refreshToken, err := generateToken(userID, username, RefreshToken, 7*24*time.Hour, secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64((15 * time.Minute).Seconds()),
	}, nil
}

// generateToken creates a JWT token
func generateToken(userID int, username string, tokenType TokenType, duration time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates and parses JWT token
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshTokenPair generates new access token AND new refresh token (with rotation)
// This is more secure as it invalidates old refresh token
func RefreshTokenPair(refreshTokenString string, secret string) (*TokenPair, error) {
	// Validate refresh token
	claims, err := ValidateToken(refreshTokenString, secret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Check if it's a refresh token
	if claims.Type != RefreshToken {
		return nil, errors.New("not a refresh token")
	}

	// Generate NEW token pair (rotation for security)
	// Old refresh token becomes invalid
	return GenerateTokenPair(claims.UserID, claims.Username, secret)
}

// GetUserIDFromContext extracts userID from Gin context
func GetUserIDFromContext(c *gin.Context) (int, error) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(int)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type")
	}

	return id, nil
}

// GetUsernameFromContext extracts the principal's username from Gin context
func GetUsernameFromContext(c *gin.Context) (string, error) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", fmt.Errorf("username not found in context")
	}

	name, ok := username.(string)
	if !ok {
		return "", fmt.Errorf("invalid username type")
	}

	return name, nil
}
