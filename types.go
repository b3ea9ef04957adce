package session

import (
	"context"
	"fmt"
)

// Logger is the minimal leveled logger the SDK writes to. The default
// implementation prints to stdout; consumers adapt their own logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialSetter manages the bearer credential attached to every
// outgoing backend call. Implemented by APIClient.
type CredentialSetter interface {
	SetBearerToken(token string)
	ClearBearerToken()
}

// Backend is the subset of the platform API the session lifecycle depends
// on. Implemented by APIClient.
type Backend interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	VerifySignup2FA(ctx context.Context, userID, otp string) (*AuthResponse, error)
	Me(ctx context.Context) (*Identity, error)
}

// Storage is a durable key-value store holding the persisted session subset.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Config holds client options
type Config interface {
	GetBaseURL() string
	GetRequestTimeout() int
	GetAuthScheme() string
	GetSessionStorageKey() string
	GetPollInterval() int
	GetStoragePath() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
