package session

import (
	"github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "invalid_credentials"
	textCodeNotAuthenticated   = "not_authenticated"
	textCodeSessionRejected    = "session_rejected"
	textCodeProfileRefresh     = "profile_refresh_failed"
	textCodeInvalidInput       = "invalid_input"
	textCodeRequestFailed      = "request_failed"
)

// ErrInvalidCredentials is returned when login or signup is rejected by the
// backend. The persisted credential is purged defensively before it is
// surfaced.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrNotAuthenticated is returned when an operation requires an established
// session and none exists.
var ErrNotAuthenticated = errors.New("not authenticated", errors.CategoryAuth).
	WithTextCode(textCodeNotAuthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrSessionRejected marks a persisted token the backend no longer accepts.
// It never reaches callers; Initialize degrades to the unauthenticated state
// and only logs it.
var ErrSessionRejected = errors.New("persisted session rejected", errors.CategoryAuth).
	WithTextCode(textCodeSessionRejected).
	WithCode(errors.CodeUnauthorized)

// ErrProfileRefreshFailed wraps failures of FetchProfile/RefreshUserData.
// The session token is deliberately left intact; a transient refresh error
// must not log the user out.
var ErrProfileRefreshFailed = errors.New("profile refresh failed", errors.CategoryOperation).
	WithTextCode(textCodeProfileRefresh)

// IsCredentialError reports whether err represents a rejected credential,
// the only lifecycle failure that is surfaced to the user.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}
	return false
}
