package user

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"user_manager/internal/apperror"
)

// translateBindingError converts a gin binding failure into the application
// error taxonomy: declarative constraint violations become a ValidationError
// carrying one message per invalid field, anything else (malformed JSON,
// type mismatches) becomes an illegal-argument error.
func translateBindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewIllegalArgumentError("invalid request body", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldErrorMessage(fe)
	}
	return apperror.NewValidationError(fields)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch strings.ToLower(fe.Field()) {
	case "username":
		if fe.Tag() == "required" {
			return "username is required"
		}
		return "username length must between 3 and 16"
	case "nickname":
		return "nickname length must between 0 and 16"
	case "email":
		if fe.Tag() == "required" {
			return "email is required"
		}
		return "email format is invalid"
	case "password":
		return "password is required"
	default:
		return fe.Field() + " is invalid"
	}
}
