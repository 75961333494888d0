package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationMessages flattens validator errors into human readable messages.
func ValidationMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{ErrMsgInvalidRequestData}
	}

	messages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		messages[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return messages
}
