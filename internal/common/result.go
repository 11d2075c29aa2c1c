// Package common holds the uniform response envelope and the single place
// where raised errors are translated into HTTP responses.
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user_manager/internal/apperror"
)

// Result is the envelope every endpoint returns, success or failure.
// Code mirrors the HTTP status; Data is null when there is no payload.
type Result struct {
	Flag    bool   `json:"flag"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success builds a success envelope without payload.
func Success(message string) Result {
	return Result{Flag: true, Code: http.StatusOK, Message: message}
}

// SuccessWithData builds a success envelope carrying data.
func SuccessWithData(message string, data any) Result {
	return Result{Flag: true, Code: http.StatusOK, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(code int, message string, data any) Result {
	return Result{Flag: false, Code: code, Message: message, Data: data}
}

// Fixed failure messages, one per error category.
const (
	MsgAccessDenied     = "access denied"
	MsgBadCredentials   = "username or password is incorrect"
	MsgInvalidArguments = "Provided arguments are invalid, set data for details"
	MsgAccountAbnormal  = "user account is abnormal"
	MsgMissingAuth      = "username and password are mandatory"
	MsgInvalidToken     = "The access token provided is expired, revoked, malformed, or invalid for other reasons"
	MsgInternalError    = "A server internal error occurs"
)

// Translate maps any raised error to the HTTP status and failure envelope
// defined by the error category. The mapping is total: errors that are not
// AppErrors, and categories without a dedicated entry, fall through to 500.
func Translate(err error) (int, Result) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		return http.StatusInternalServerError,
			Fail(http.StatusInternalServerError, MsgInternalError, err.Error())
	}

	status := appErr.StatusCode()
	switch appErr.Type {
	case apperror.AccessDeniedError:
		return status, Fail(status, MsgAccessDenied, appErr.Error())
	case apperror.BadCredentialsError:
		return status, Fail(status, MsgBadCredentials, appErr.Error())
	case apperror.ValidationError:
		return status, Fail(status, MsgInvalidArguments, appErr.Fields)
	case apperror.NotFoundError:
		return status, Fail(status, appErr.Message, nil)
	case apperror.IllegalArgumentError:
		return status, Fail(status, appErr.Message, nil)
	case apperror.AccountStatusError:
		return status, Fail(status, MsgAccountAbnormal, appErr.Error())
	case apperror.InsufficientAuthError:
		return status, Fail(status, MsgMissingAuth, appErr.Error())
	case apperror.InvalidTokenError:
		return status, Fail(status, MsgInvalidToken, appErr.Error())
	default:
		return http.StatusInternalServerError,
			Fail(http.StatusInternalServerError, MsgInternalError, appErr.Error())
	}
}

// RespondError writes the translated failure envelope for err.
func RespondError(c *gin.Context, err error) {
	status, result := Translate(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("Unhandled error reached the translator")
	}
	c.JSON(status, result)
}

// Respond writes a success envelope with payload.
func Respond(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessWithData(message, data))
}
