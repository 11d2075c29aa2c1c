package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"user_manager/internal/apperror"
)

// WeakPasswordMessage is returned whole whenever any strength sub-rule fails.
const WeakPasswordMessage = "Password is not strong enough; " +
	"1. At least a number; " +
	"2. A least a lower letter; " +
	"3. At least a upper letter; " +
	"4. No spaces; " +
	"5. At least 8 characters, at most 20 characters"

func GeneratePasswordHash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

func ComparePasswordHash(hashedPassword []byte, password string) error {
	// Compare password with hash
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
}

// ValidatePasswordStrength enforces the password policy: at least one digit,
// one lower letter, one upper letter, no whitespace, length 8-20 inclusive.
// Whichever sub-rule fails, the error carries the full fixed message.
func ValidatePasswordStrength(password string) error {
	if password == "" {
		return apperror.NewIllegalArgumentError("password is required", nil)
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsSpace(r):
			return apperror.NewIllegalArgumentError(WeakPasswordMessage, nil)
		}
	}

	if !hasDigit || !hasLower || !hasUpper || len(password) < 8 || len(password) > 20 {
		return apperror.NewIllegalArgumentError(WeakPasswordMessage, nil)
	}

	return nil
}
