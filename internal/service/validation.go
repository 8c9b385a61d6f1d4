package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries a message fit for the person filling in the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("Please enter your %s", field)
	case "email":
		msg = "Please enter a valid email address"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", capitalize(field), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", capitalize(field), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", capitalize(field))
	}
	return &ValidationError{Field: field, Message: msg}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
