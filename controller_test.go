package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/hirepath/go-session"
)

type fakeBackend struct {
	identity    *session.Identity
	meErr       error
	meCalls     int
	loginRes    *session.AuthResponse
	loginErr    error
	registerRes *session.AuthResponse
	registerErr error
	verifyRes   *session.AuthResponse
	verifyErr   error
}

func (f *fakeBackend) Register(context.Context, session.RegisterRequest) (*session.AuthResponse, error) {
	return f.registerRes, f.registerErr
}

func (f *fakeBackend) Login(context.Context, session.LoginRequest) (*session.AuthResponse, error) {
	return f.loginRes, f.loginErr
}

func (f *fakeBackend) VerifySignup2FA(context.Context, string, string) (*session.AuthResponse, error) {
	return f.verifyRes, f.verifyErr
}

func (f *fakeBackend) Me(context.Context) (*session.Identity, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.identity, nil
}

type testHarness struct {
	backend *fakeBackend
	creds   *fakeCreds
	store   *session.Store
	affs    *session.AffiliationStore
	storage *session.MemoryStorage
	ctrl    *session.Controller
}

func newHarness(opts ...session.ControllerOption) *testHarness {
	backend := &fakeBackend{}
	creds := &fakeCreds{}
	store := session.NewStore(creds)
	affs := session.NewAffiliationStore()
	storage := session.NewMemoryStorage()
	ctrl := session.NewController(store, affs, backend, storage, opts...)
	return &testHarness{
		backend: backend,
		creds:   creds,
		store:   store,
		affs:    affs,
		storage: storage,
		ctrl:    ctrl,
	}
}

func recruiterIdentity() *session.Identity {
	return &session.Identity{
		ID:    "u1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  session.RoleRecruiter,
	}
}

func affiliatedIdentity() *session.Identity {
	id := recruiterIdentity()
	id.Company = "c1"
	id.CompanyName = "Initech"
	id.CompanyRole = session.CompanyRoleAdmin
	return id
}

func seedPersisted(t *testing.T, storage *session.MemoryStorage, p session.PersistedSession) {
	t.Helper()
	// write through a throwaway controller so the snapshot layout matches
	creds := &fakeCreds{}
	store := session.NewStore(creds)
	affs := session.NewAffiliationStore()
	backend := &fakeBackend{
		identity: p.User,
		loginRes: &session.AuthResponse{Token: p.Token},
	}
	ctrl := session.NewController(store, affs, backend, storage)
	if p.Token != "" {
		_, err := ctrl.Login(context.Background(), session.LoginInput{
			Email:    "seed@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
	}
}

func TestInitializeNoPersistedToken(t *testing.T) {
	h := newHarness()

	err := h.ctrl.Initialize(context.Background())
	require.NoError(t, err)

	snap := h.ctrl.Session()
	assert.True(t, snap.Initialized)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.Equal(t, session.PhaseUnauthenticated, h.ctrl.Phase())
	assert.Zero(t, h.backend.meCalls)
}

func TestInitializeRestoresSession(t *testing.T) {
	h := newHarness()
	seedPersisted(t, h.storage, session.PersistedSession{
		Token: "tok-1",
		User:  affiliatedIdentity(),
	})

	// fresh process: new stores, same storage
	h2 := &testHarness{
		backend: &fakeBackend{identity: affiliatedIdentity()},
		creds:   &fakeCreds{},
		storage: h.storage,
	}
	h2.store = session.NewStore(h2.creds)
	h2.affs = session.NewAffiliationStore()
	h2.ctrl = session.NewController(h2.store, h2.affs, h2.backend, h2.storage)

	require.False(t, h2.ctrl.Session().Initialized, "initialization flag must not be persisted")

	err := h2.ctrl.Initialize(context.Background())
	require.NoError(t, err)

	snap := h2.ctrl.Session()
	assert.True(t, snap.Initialized)
	assert.Equal(t, "tok-1", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)
	assert.Equal(t, "Bearer tok-1", h2.creds.header)

	aff := h2.ctrl.Affiliation()
	assert.Equal(t, "c1", aff.CompanyID)
	assert.Equal(t, session.CompanyRoleAdmin, aff.CompanyRole)
	assert.Equal(t, session.PhaseAuthenticated, h2.ctrl.Phase())
}

func TestInitializeRejectedTokenDegradesSilently(t *testing.T) {
	h := newHarness()
	seedPersisted(t, h.storage, session.PersistedSession{
		Token: "tok-stale",
		User:  recruiterIdentity(),
	})

	backend := &fakeBackend{meErr: errors.New("401 unauthorized")}
	creds := &fakeCreds{}
	store := session.NewStore(creds)
	affs := session.NewAffiliationStore()
	ctrl := session.NewController(store, affs, backend, h.storage)

	err := ctrl.Initialize(context.Background())
	require.NoError(t, err, "bootstrap failures are never surfaced")

	snap := ctrl.Session()
	assert.True(t, snap.Initialized)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.Empty(t, creds.header)

	_, ok, err := h.storage.Get(context.Background(), session.StorageKeyToken)
	require.NoError(t, err)
	assert.False(t, ok, "persisted token must be purged")
}

func TestInitializeIdempotent(t *testing.T) {
	h := newHarness()
	h.backend.identity = recruiterIdentity()

	require.NoError(t, h.ctrl.Initialize(context.Background()))
	first := h.ctrl.Session()

	require.NoError(t, h.ctrl.Initialize(context.Background()))
	second := h.ctrl.Session()

	assert.Equal(t, first, second)
	assert.Zero(t, h.backend.meCalls, "no token means no identity fetch")
}

func TestInitializeLocallyExpiredTokenSkipsFetch(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	raw, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)

	h := newHarness()
	seedPersisted(t, h.storage, session.PersistedSession{Token: raw, User: recruiterIdentity()})

	backend := &fakeBackend{identity: recruiterIdentity()}
	creds := &fakeCreds{}
	store := session.NewStore(creds)
	ctrl := session.NewController(store, session.NewAffiliationStore(), backend, h.storage)

	require.NoError(t, ctrl.Initialize(context.Background()))

	assert.Zero(t, backend.meCalls, "locally expired token must be rejected without a round trip")
	snap := ctrl.Session()
	assert.True(t, snap.Initialized)
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
}

func TestLoginSuccess(t *testing.T) {
	h := newHarness()
	h.backend.loginRes = &session.AuthResponse{Token: "tok-login"}
	h.backend.identity = affiliatedIdentity()

	result, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Identity)
	assert.False(t, result.TwoFactorRequired)

	snap := h.ctrl.Session()
	assert.Equal(t, "tok-login", snap.Token)
	assert.Equal(t, "u1", snap.User.ID)
	assert.True(t, snap.Initialized)
	assert.Equal(t, "Bearer tok-login", h.creds.header)

	aff := h.ctrl.Affiliation()
	assert.Equal(t, "c1", aff.CompanyID)

	tok, ok, err := h.storage.Get(context.Background(), session.StorageKeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-login", tok)
}

func TestLoginSecondFactorDoesNotMutate(t *testing.T) {
	h := newHarness()
	h.backend.loginRes = &session.AuthResponse{TwoFactorRequired: true, UserID: "u1"}

	result, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
	assert.Equal(t, "u1", result.UserID)

	snap := h.ctrl.Session()
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.Empty(t, h.creds.header)
	assert.Zero(t, h.backend.meCalls)
}

func TestLoginFailurePurgesState(t *testing.T) {
	h := newHarness()
	// establish a session first
	h.backend.loginRes = &session.AuthResponse{Token: "tok-old"}
	h.backend.identity = recruiterIdentity()
	_, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	h.backend.loginRes = nil
	h.backend.loginErr = errors.New("wrong password")

	_, err = h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, session.IsCredentialError(err))

	snap := h.ctrl.Session()
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.ResumeURL)
	assert.Empty(t, h.creds.header)

	for _, key := range []string{session.StorageKeyToken, session.StorageKeyResumeURL} {
		_, ok, err := h.storage.Get(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, ok, "persisted %s must be absent after a failed login", key)
	}
}

func TestLoginInvalidInput(t *testing.T) {
	h := newHarness()

	_, err := h.ctrl.Login(context.Background(), session.LoginInput{Email: "not-an-email"})
	require.Error(t, err)

	var rich *goerrors.Error
	require.True(t, goerrors.As(err, &rich))
	assert.Equal(t, goerrors.CategoryValidation, rich.Category)
	assert.Zero(t, h.backend.meCalls)
}

func TestSignupSecondFactorPending(t *testing.T) {
	h := newHarness()
	h.backend.registerRes = &session.AuthResponse{TwoFactorRequired: true, UserID: "u9"}

	result, err := h.ctrl.Signup(context.Background(), session.SignupInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "password123",
		Role:     session.RoleRecruiter,
	})
	require.NoError(t, err)
	assert.True(t, result.TwoFactorRequired)
	assert.Equal(t, "u9", result.UserID)

	assert.Empty(t, h.ctrl.Session().Token)
	assert.Nil(t, h.ctrl.Session().User)
}

func TestVerifySignup2FACompletesLogin(t *testing.T) {
	h := newHarness()
	h.backend.verifyRes = &session.AuthResponse{Token: "tok-verified"}
	h.backend.identity = recruiterIdentity()

	result, err := h.ctrl.VerifySignup2FA(context.Background(), "u9", "123456")
	require.NoError(t, err)
	require.NotNil(t, result.Identity)

	snap := h.ctrl.Session()
	assert.Equal(t, "tok-verified", snap.Token)
	assert.True(t, snap.Initialized)
}

func TestLogoutClearsEverything(t *testing.T) {
	h := newHarness()
	h.backend.loginRes = &session.AuthResponse{Token: "tok"}
	h.backend.identity = affiliatedIdentity()
	_, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, h.ctrl.Logout(context.Background()))

	snap := h.ctrl.Session()
	assert.Empty(t, snap.Token)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Initialized, "logout resets the initialization flag")
	assert.False(t, snap.AutoSendStatusEmail)
	assert.Empty(t, h.creds.header)
	assert.True(t, h.ctrl.Affiliation().Empty())
	assert.Equal(t, session.PhaseUninitialized, h.ctrl.Phase())

	_, ok, err := h.storage.Get(context.Background(), session.StorageKeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFetchProfileFailureKeepsToken(t *testing.T) {
	h := newHarness()
	h.backend.loginRes = &session.AuthResponse{Token: "tok"}
	h.backend.identity = recruiterIdentity()
	_, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	h.backend.meErr = errors.New("network down")

	_, err = h.ctrl.FetchProfile(context.Background())
	require.Error(t, err)

	snap := h.ctrl.Session()
	assert.Equal(t, "tok", snap.Token, "transient refresh failure must not log the user out")
	assert.NotNil(t, snap.User)
	assert.True(t, snap.Initialized)
}

func TestRefreshUserDataRederivesAffiliation(t *testing.T) {
	h := newHarness()
	h.backend.loginRes = &session.AuthResponse{Token: "tok"}
	h.backend.identity = recruiterIdentity()
	_, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.True(t, h.ctrl.Affiliation().Empty())

	h.backend.identity = affiliatedIdentity()

	identity, err := h.ctrl.RefreshUserData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c1", identity.Company)

	aff := h.ctrl.Affiliation()
	assert.Equal(t, "c1", aff.CompanyID)
	assert.Equal(t, session.CompanyRoleAdmin, aff.CompanyRole)
}

func TestTokenImpliesUserInvariant(t *testing.T) {
	scenarios := []func(h *testHarness){
		func(h *testHarness) {
			_ = h.ctrl.Initialize(context.Background())
		},
		func(h *testHarness) {
			h.backend.loginErr = errors.New("rejected")
			_, _ = h.ctrl.Login(context.Background(), session.LoginInput{
				Email: "a@b.co", Password: "x",
			})
		},
		func(h *testHarness) {
			h.backend.loginRes = &session.AuthResponse{Token: "tok"}
			h.backend.identity = recruiterIdentity()
			_, _ = h.ctrl.Login(context.Background(), session.LoginInput{
				Email: "a@b.co", Password: "password123",
			})
			_ = h.ctrl.Logout(context.Background())
		},
	}

	for _, run := range scenarios {
		h := newHarness()
		run(h)
		snap := h.ctrl.Session()
		if snap.Token == "" {
			assert.Nil(t, snap.User, "token absent must imply user absent")
		}
	}
}

func TestActivitySinkReceivesLifecycleEvents(t *testing.T) {
	var events []session.ActivityEvent
	sink := session.ActivitySinkFunc(func(_ context.Context, e session.ActivityEvent) error {
		events = append(events, e)
		return nil
	})

	h := newHarness(session.WithActivitySink(sink))
	h.backend.loginRes = &session.AuthResponse{Token: "tok"}
	h.backend.identity = recruiterIdentity()

	_, err := h.ctrl.Login(context.Background(), session.LoginInput{
		Email:    "ada@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, h.ctrl.Logout(context.Background()))

	var types []session.ActivityEventType
	for _, e := range events {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, session.ActivityEventLoginSuccess)
	assert.Contains(t, types, session.ActivityEventLogout)
}
