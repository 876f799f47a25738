package auth

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
)

var (
	ErrEmptyCredentials = errors.New("username or password missing")
	ErrStaleResponse    = errors.New("login response arrived after the request was abandoned")
)

// Messages shown on the login form.
const (
	MessageInvalidCredentials = "Invalid credentials"
	MessageConnectionError    = "Connection error. Please try again."
	MessageEmptyCredentials   = "Please enter both username and password"
)

// Retryable reports whether a failed login may succeed if tried again unchanged:
// the gateway could not be reached or the session could not be stored.
func Retryable(err error) bool {
	return errors.Is(err, apperrors.ErrGatewayUnreachable) || errors.Is(err, apperrors.ErrSessionUnavailable)
}

// UserMessage maps a login failure onto the generic text a user is allowed to see.
// It never distinguishes a bad username from a bad password or an unknown tenant.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCredentials):
		return MessageEmptyCredentials
	case Retryable(err), errors.Is(err, ErrStaleResponse), errors.Is(err, context.DeadlineExceeded):
		return MessageConnectionError
	default:
		return MessageInvalidCredentials
	}
}
