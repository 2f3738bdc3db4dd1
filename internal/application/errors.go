package application

import (
	"errors"

	"github.com/portalnorte/noticias-backend/internal/verification"
)

// Service-level errors. Handlers translate these to HTTP status codes and
// machine-readable reasons; anything else is an infrastructure failure and
// surfaces as a 500 without internal detail.
var (
	ErrInvalidAge         = errors.New("age out of range")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownEmail       = errors.New("unknown email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAccessDenied       = errors.New("access denied")
	ErrMissingFields      = errors.New("missing required fields")
	ErrNotFound           = errors.New("record not found")

	// ErrInvalidOrExpiredCode aliases the registry error so callers only
	// depend on this package.
	ErrInvalidOrExpiredCode = verification.ErrInvalidOrExpired
)
