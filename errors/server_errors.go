// errors/server_errors.go
package errors

import "errors"

var (
	ErrDatabaseOperation  = errors.New("database operation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrEmailNotConfigured = errors.New("email delivery is not configured")
)
