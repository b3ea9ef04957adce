package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest is the payload for POST /auth/login. OTP is only present when
// the caller re-invokes login with the second factor code.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// AuthResponse is the shared response shape of the auth endpoints. A
// TwoFactorRequired response carries no token; the caller must complete the
// second factor first.
type AuthResponse struct {
	TwoFactorRequired bool   `json:"twoFactorRequired,omitempty"`
	Token             string `json:"token,omitempty"`
	UserID            string `json:"userId,omitempty"`
	Message           string `json:"message,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// APIClient is the single configured transport to the backend. The bearer
// credential lives in its default header map; every endpoint method copies
// the defaults onto the outgoing request.
type APIClient struct {
	baseURL    string
	authScheme string
	httpClient *http.Client
	logger     Logger

	mu       sync.RWMutex
	defaults http.Header
}

var _ Backend = (*APIClient)(nil)
var _ CredentialSetter = (*APIClient)(nil)

// NewAPIClient returns a client for the platform API described by cfg.
func NewAPIClient(cfg Config) *APIClient {
	timeout := 15 * time.Second
	if cfg.GetRequestTimeout() > 0 {
		timeout = time.Duration(cfg.GetRequestTimeout()) * time.Second
	}

	scheme := cfg.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	return &APIClient{
		baseURL:    cfg.GetBaseURL(),
		authScheme: scheme,
		httpClient: &http.Client{Timeout: timeout},
		logger:     defLogger{},
		defaults:   http.Header{},
	}
}

// WithLogger overrides the client logger.
func (c *APIClient) WithLogger(logger Logger) *APIClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient overrides the underlying HTTP client (useful for tests).
func (c *APIClient) WithHTTPClient(hc *http.Client) *APIClient {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// SetBearerToken installs the bearer credential on every subsequent request.
func (c *APIClient) SetBearerToken(token string) {
	c.mu.Lock()
	c.defaults.Set("Authorization", c.authScheme+" "+token)
	c.mu.Unlock()
}

// ClearBearerToken removes the bearer credential from the default headers.
func (c *APIClient) ClearBearerToken() {
	c.mu.Lock()
	c.defaults.Del("Authorization")
	c.mu.Unlock()
}

// BearerHeader returns the current Authorization default, empty when no
// credential is set.
func (c *APIClient) BearerHeader() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaults.Get("Authorization")
}

// Register creates an account. A TwoFactorRequired response means the signup
// is pending email verification.
func (c *APIClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Login exchanges credentials (plus an optional one-time code) for a token.
func (c *APIClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifySignup2FA completes a pending signup second factor.
func (c *APIClient) VerifySignup2FA(ctx context.Context, userID, otp string) (*AuthResponse, error) {
	payload := map[string]string{"userId": userID, "otp": otp}
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-signup-2fa", payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me fetches the current identity. Requires the bearer credential.
func (c *APIClient) Me(ctx context.Context) (*Identity, error) {
	out := &Identity{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode request payload")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}

	c.mu.RLock()
	for key, values := range c.defaults {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	c.mu.RUnlock()

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, fmt.Sprintf("%s %s failed", method, path)).
			WithTextCode(textCodeRequestFailed)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read response body").
			WithTextCode(textCodeRequestFailed)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return c.statusError(method, path, res.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to decode response").
				WithTextCode(textCodeRequestFailed)
		}
	}

	return nil
}

func (c *APIClient) statusError(method, path string, status int, raw []byte) error {
	msg := fmt.Sprintf("%s %s returned %d", method, path, status)
	apiErr := apiError{}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	var rich *errors.Error
	switch {
	case status == http.StatusUnauthorized:
		rich = errors.New(msg, errors.CategoryAuth).WithCode(errors.CodeUnauthorized)
	case status == http.StatusForbidden:
		rich = errors.New(msg, errors.CategoryAuth).WithCode(errors.CodeForbidden)
	case status == http.StatusNotFound:
		rich = errors.New(msg, errors.CategoryNotFound).WithCode(errors.CodeNotFound)
	case status == http.StatusTooManyRequests:
		rich = errors.New(msg, errors.CategoryRateLimit)
	case status >= http.StatusInternalServerError:
		rich = errors.New(msg, errors.CategoryOperation)
	default:
		rich = errors.New(msg, errors.CategoryValidation).WithCode(errors.CodeBadRequest)
	}

	return rich.WithMetadata(map[string]any{
		"status": status,
		"method": method,
		"path":   path,
	})
}
