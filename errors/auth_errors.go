// errors/auth_errors.go
package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")

	ErrMFANotInitiated = errors.New("mfa setup not initiated")
	ErrMFANotEnabled   = errors.New("mfa not enabled for user")
	ErrMFAIntegrity    = errors.New("mfa integrity error")
	ErrInvalidOTP      = errors.New("invalid otp")
)
