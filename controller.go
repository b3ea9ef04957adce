package session

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Phase describes where the session lifecycle currently stands.
type Phase string

const (
	PhaseUninitialized   Phase = "uninitialized"
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseAuthenticated   Phase = "authenticated"
)

// AuthResult is the success-shaped outcome of Login, Signup, and
// VerifySignup2FA. TwoFactorRequired means no session was established; the
// caller is expected to re-invoke with the one-time code.
type AuthResult struct {
	TwoFactorRequired bool
	UserID            string
	Identity          *Identity
}

// Controller orchestrates signup, login, logout, profile refresh, and
// startup rehydration. It is the only component that mutates the session
// and affiliation stores, and it always updates them in the same logical
// step so they are never externally observable in an inconsistent state.
type Controller struct {
	store        *Store
	affiliations *AffiliationStore
	api          Backend
	storage      Storage

	sessionKey   string
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time
}

// ControllerOption customizes controller construction.
type ControllerOption func(*Controller)

// WithLogger overrides the controller logger.
func WithLogger(logger Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithActivitySink configures an ActivitySink for emitting lifecycle events.
func WithActivitySink(sink ActivitySink) ControllerOption {
	return func(c *Controller) {
		c.activitySink = normalizeActivitySink(sink)
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ControllerOption {
	return func(c *Controller) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithSessionStorageKey overrides the key holding the combined snapshot.
func WithSessionStorageKey(key string) ControllerOption {
	return func(c *Controller) {
		if key != "" {
			c.sessionKey = key
		}
	}
}

// NewController wires the session store, affiliation store, backend, and
// durable storage into one lifecycle controller.
func NewController(store *Store, affiliations *AffiliationStore, api Backend, storage Storage, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:        store,
		affiliations: affiliations,
		api:          api,
		storage:      storage,
		sessionKey:   DefaultSessionStorageKey,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Session returns a snapshot of the session store.
func (c *Controller) Session() Snapshot {
	return c.store.Snapshot()
}

// Affiliation returns the current company affiliation.
func (c *Controller) Affiliation() Affiliation {
	return c.affiliations.Current()
}

// Phase derives the lifecycle phase from the current session state.
func (c *Controller) Phase() Phase {
	snap := c.store.Snapshot()
	switch {
	case !snap.Initialized:
		return PhaseUninitialized
	case snap.User != nil:
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}

// Initialize rehydrates the persisted session and resolves it against the
// backend. It runs once at process start and is idempotent: once the first
// invocation resolves, later calls are no-ops. Any failure, an expired or
// rejected token, an unreachable backend, degrades silently to the
// unauthenticated state; bootstrap failures are never surfaced.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.store.Initialized() {
		return nil
	}

	persisted, err := c.loadPersisted(ctx)
	if err != nil {
		c.logger.Warn("failed to load persisted session: %v", err)
		persisted = PersistedSession{}
	}

	if persisted.Token == "" {
		c.store.SetInitialized(true)
		return nil
	}

	// rehydrate before resolving so the adapter carries the credential
	c.store.SetToken(persisted.Token)
	c.store.SetUser(persisted.User)
	if persisted.ResumeURL != "" {
		c.store.SetResumeURL(persisted.ResumeURL)
	}
	c.store.SetAutoSendStatusEmail(persisted.AutoSendStatusEmail)

	if tokenExpired(persisted.Token, c.now()) {
		c.logger.Debug("persisted token expired, purging session")
		c.rejectSession(ctx, ErrSessionRejected)
		return nil
	}

	identity, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Debug("session rehydration rejected: %v", err)
		c.rejectSession(ctx, err)
		return nil
	}

	c.store.SetUser(identity)
	c.applyAffiliation(identity)
	c.store.SetInitialized(true)
	c.savePersisted(ctx)

	c.emitActivity(ctx, ActivityEventSessionRestored, identity.ID, nil)
	return nil
}

// Signup requests account creation. When the backend requires a second
// factor the result is returned without mutating any state; otherwise the
// response completes identically to a successful login.
func (c *Controller) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	res, err := c.api.Register(ctx, RegisterRequest{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		c.purgeAuth(ctx)
		c.emitActivity(ctx, ActivityEventSignupFailure, "", map[string]any{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, c.credentialError(err, "signup rejected")
	}

	if res.TwoFactorRequired {
		c.emitActivity(ctx, ActivityEventSecondFactorRequired, res.UserID, map[string]any{
			"flow": "signup",
		})
		return &AuthResult{TwoFactorRequired: true, UserID: res.UserID}, nil
	}

	identity, err := c.completeAuthentication(ctx, res.Token)
	if err != nil {
		c.emitActivity(ctx, ActivityEventSignupFailure, "", map[string]any{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	c.emitActivity(ctx, ActivityEventSignupSuccess, identity.ID, nil)
	return &AuthResult{Identity: identity}, nil
}

// VerifySignup2FA completes a signup that is pending its second factor and
// establishes the session like a successful login.
func (c *Controller) VerifySignup2FA(ctx context.Context, userID, otp string) (*AuthResult, error) {
	res, err := c.api.VerifySignup2FA(ctx, userID, otp)
	if err != nil {
		c.purgeAuth(ctx)
		return nil, c.credentialError(err, "second factor rejected")
	}

	identity, err := c.completeAuthentication(ctx, res.Token)
	if err != nil {
		return nil, err
	}

	c.emitActivity(ctx, ActivityEventSignupSuccess, identity.ID, map[string]any{
		"second_factor": true,
	})
	return &AuthResult{Identity: identity}, nil
}

// Login sends credentials, plus the one-time code when supplied. A pending
// second factor is returned as a success-shaped result the caller must
// branch on. On failure the persisted credential is purged defensively and
// the error is surfaced.
func (c *Controller) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	res, err := c.api.Login(ctx, LoginRequest{
		Email:    input.Email,
		Password: input.Password,
		OTP:      input.OTP,
	})
	if err != nil {
		c.purgeAuth(ctx)
		c.emitActivity(ctx, ActivityEventLoginFailure, "", map[string]any{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, c.credentialError(err, "login rejected")
	}

	if res.TwoFactorRequired {
		c.emitActivity(ctx, ActivityEventSecondFactorRequired, res.UserID, map[string]any{
			"flow": "login",
		})
		return &AuthResult{TwoFactorRequired: true, UserID: res.UserID}, nil
	}

	identity, err := c.completeAuthentication(ctx, res.Token)
	if err != nil {
		c.emitActivity(ctx, ActivityEventLoginFailure, "", map[string]any{
			"email": input.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	c.emitActivity(ctx, ActivityEventLoginSuccess, identity.ID, nil)
	return &AuthResult{Identity: identity}, nil
}

// Logout is a pure local operation: it clears persisted storage, removes
// the bearer credential, resets the session to its empty state (including
// the initialization flag), and clears the affiliation. No backend call.
func (c *Controller) Logout(ctx context.Context) error {
	userID := ""
	if u := c.store.User(); u != nil {
		userID = u.ID
	}

	err := c.storage.Clear(ctx)

	c.store.Reset()
	c.affiliations.Reset()

	c.emitActivity(ctx, ActivityEventLogout, userID, nil)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear persisted session")
	}
	return nil
}

// FetchProfile re-fetches the current identity and overwrites the session
// user, re-deriving the affiliation, without touching the token or the
// initialization flag. Failures propagate to the caller; the token is
// deliberately left intact so a transient refresh error does not log the
// user out.
func (c *Controller) FetchProfile(ctx context.Context) (*Identity, error) {
	if c.store.Token() == "" {
		return nil, ErrNotAuthenticated
	}

	identity, err := c.api.Me(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "profile refresh failed").
			WithTextCode(textCodeProfileRefresh)
	}

	c.store.SetUser(identity)
	c.applyAffiliation(identity)
	c.savePersisted(ctx)

	c.emitActivity(ctx, ActivityEventProfileRefreshed, identity.ID, nil)
	return identity, nil
}

// RefreshUserData reconciles the session after an asynchronous state
// transition, such as a pending company-join request being approved. It is
// the refresh path the status poller invokes.
func (c *Controller) RefreshUserData(ctx context.Context) (*Identity, error) {
	return c.FetchProfile(ctx)
}

// SetAutoSendStatusEmail updates the persisted status-email preference.
func (c *Controller) SetAutoSendStatusEmail(ctx context.Context, v bool) {
	c.store.SetAutoSendStatusEmail(v)
	c.savePersisted(ctx)
}

// completeAuthentication is the shared tail of login, signup, and second
// factor verification: commit the token to the adapter, then fetch the
// identity that depends on it, populate both stores, and persist the
// snapshot. The token commit strictly precedes the identity fetch.
func (c *Controller) completeAuthentication(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		c.purgeAuth(ctx)
		return nil, ErrInvalidCredentials
	}

	c.store.SetToken(token)

	identity, err := c.api.Me(ctx)
	if err != nil {
		c.purgeAuth(ctx)
		return nil, c.credentialError(err, "failed to establish session")
	}

	c.store.SetUser(identity)
	c.applyAffiliation(identity)
	c.store.SetInitialized(true)
	c.savePersisted(ctx)

	return identity, nil
}

// applyAffiliation recomputes the affiliation store from the identity in
// the same logical step as the session mutation.
func (c *Controller) applyAffiliation(identity *Identity) {
	if identity.HasAffiliation() {
		c.affiliations.Set(identity.Company, identity.CompanyRole)
	} else {
		c.affiliations.Reset()
	}
}

// rejectSession handles a failed rehydration: purge everything, stay
// silent, and mark initialization resolved.
func (c *Controller) rejectSession(ctx context.Context, cause error) {
	c.purgeAuth(ctx)
	c.store.SetInitialized(true)
	c.emitActivity(ctx, ActivityEventSessionRejected, "", map[string]any{
		"error": cause.Error(),
	})
}

// purgeAuth clears the persisted credential keys and the in-memory session
// fields. The user is cleared before the token so the token-implies-user
// invariant holds at every intermediate point.
func (c *Controller) purgeAuth(ctx context.Context) {
	if err := c.storage.Delete(ctx, StorageKeyToken); err != nil {
		c.logger.Warn("failed to delete persisted token: %v", err)
	}
	if err := c.storage.Delete(ctx, StorageKeyResumeURL); err != nil {
		c.logger.Warn("failed to delete persisted resume url: %v", err)
	}
	if err := c.storage.Delete(ctx, c.sessionKey); err != nil {
		c.logger.Warn("failed to delete persisted session: %v", err)
	}

	c.store.SetUser(nil)
	c.store.SetToken("")
	c.store.SetResumeURL("")
	c.affiliations.Reset()
}

// loadPersisted reads the combined snapshot, falling back to the standalone
// token key for storage written before the snapshot existed.
func (c *Controller) loadPersisted(ctx context.Context) (PersistedSession, error) {
	raw, ok, err := c.storage.Get(ctx, c.sessionKey)
	if err != nil {
		return PersistedSession{}, err
	}
	if ok {
		return decodePersisted(raw)
	}

	token, ok, err := c.storage.Get(ctx, StorageKeyToken)
	if err != nil || !ok {
		return PersistedSession{}, err
	}
	resumeURL, _, _ := c.storage.Get(ctx, StorageKeyResumeURL)
	return PersistedSession{Token: token, ResumeURL: resumeURL}, nil
}

// savePersisted writes the snapshot plus the standalone keys. Best effort:
// storage failures are logged, never propagated, so a broken disk cannot
// break an otherwise healthy login.
func (c *Controller) savePersisted(ctx context.Context) {
	snap := c.store.Snapshot()

	persisted := PersistedSession{
		Token:               snap.Token,
		User:                snap.User,
		ResumeURL:           snap.ResumeURL,
		AutoSendStatusEmail: snap.AutoSendStatusEmail,
	}

	raw, err := encodePersisted(persisted)
	if err != nil {
		c.logger.Warn("failed to encode session snapshot: %v", err)
		return
	}

	if err := c.storage.Set(ctx, c.sessionKey, raw); err != nil {
		c.logger.Warn("failed to persist session snapshot: %v", err)
	}

	if snap.Token != "" {
		if err := c.storage.Set(ctx, StorageKeyToken, snap.Token); err != nil {
			c.logger.Warn("failed to persist token: %v", err)
		}
	}

	if snap.ResumeURL != "" {
		if err := c.storage.Set(ctx, StorageKeyResumeURL, snap.ResumeURL); err != nil {
			c.logger.Warn("failed to persist resume url: %v", err)
		}
	} else {
		if err := c.storage.Delete(ctx, StorageKeyResumeURL); err != nil {
			c.logger.Warn("failed to delete persisted resume url: %v", err)
		}
	}
}

// credentialError normalizes a backend rejection into the surfaced
// credential failure, preserving rich errors that already carry an auth
// category.
func (c *Controller) credentialError(err error, msg string) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Category == goerrors.CategoryAuth {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryAuth, msg).
		WithTextCode(textCodeInvalidCredentials).
		WithCode(goerrors.CodeUnauthorized)
}

func (c *Controller) emitActivity(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(c.activitySink)
	event := ActivityEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: c.now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		c.logger.Warn("activity sink record error: %v", err)
	}
}
