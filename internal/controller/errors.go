package controller

import (
	"errors"

	"aquatech-web/internal/service"
	"aquatech-web/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service errors to HTTP status codes. Identity service 4xx
// answers keep their own status.
func statusFor(err error) int {
	var validationErr *service.ValidationError
	var apiErr *identity.APIError

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNoPendingSignIn),
		errors.Is(err, service.ErrMissingCallbackCode),
		errors.Is(err, service.ErrProviderNotAllowed):
		return fiber.StatusBadRequest
	case errors.Is(err, identity.ErrNotConfigured),
		errors.Is(err, service.ErrInquiryDisabled):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
