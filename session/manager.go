// Package session is the single source of truth for the client's
// authentication state and cached user profile.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/jrsteele09/go-skillgap-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	logoutPath   = "/auth/logout"
	profilePath  = "/auth/me"
)

// Listener receives a snapshot after every state transition.
type Listener func(Snapshot)

// Manager drives the session state machine. All profile mutation goes
// through its operations so the server stays authoritative.
type Manager struct {
	store *credentials.Store
	api   *transport.Client

	lock      sync.Mutex
	snapshot  Snapshot
	listeners []Listener

	nowTime func() time.Time
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager creates a Manager in the loading state.
func NewManager(store *credentials.Store, api *transport.Client, options ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] transport client is required")
	}

	manager := &Manager{
		store:    store,
		api:      api,
		snapshot: Snapshot{Status: StatusLoading},
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(manager)
	}
	return manager, nil
}

// Current returns the latest snapshot.
func (m *Manager) Current() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.snapshot
}

// OnChange registers a listener for state transitions.
func (m *Manager) OnChange(listener Listener) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Bootstrap resolves the initial loading state from stored credentials.
// No stored token means anonymous with zero network calls. A stored token
// is validated against /auth/me; only an authentication failure clears
// credentials, anything else that prevented validation yields StatusError.
func (m *Manager) Bootstrap(ctx context.Context) Snapshot {
	token := m.store.AccessToken()
	if token == "" {
		return m.transition(StatusAnonymous, nil)
	}

	// An access token past its expiry with no refresh token to trade in
	// cannot be validated, skip the network round trip.
	if m.tokenExpired(token) && m.store.RefreshToken() == "" {
		m.clearCredentials()
		return m.transition(StatusAnonymous, nil)
	}

	var profile users.Profile
	if err := m.api.Get(ctx, profilePath, nil, &profile); err != nil {
		if errors.Is(err, transport.ErrAuthentication) {
			m.clearCredentials()
			return m.transition(StatusAnonymous, nil)
		}
		log.Err(err).Msg("session bootstrap validation failed")
		return m.transition(StatusError, nil)
	}

	m.cacheUser(&profile)
	return m.transition(StatusAuthenticated, &profile)
}

// loginResponse is the login endpoint's payload. The user record ships with
// the tokens but the canonical profile is still fetched from /auth/me.
type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Login exchanges credentials for tokens and populates the user from the
// canonical profile endpoint.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	var tokens loginResponse
	err := m.api.Post(ctx, loginPath, map[string]string{"email": email, "password": password}, &tokens)
	if err != nil {
		return resultFromError(err)
	}

	if err := m.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return resultFromError(err)
	}

	var profile users.Profile
	if err := m.api.Get(ctx, profilePath, nil, &profile); err != nil {
		return resultFromError(err)
	}

	m.cacheUser(&profile)
	m.transition(StatusAuthenticated, &profile)
	log.Debug().Str("email", profile.Email).Msg("logged in")
	return succeeded()
}

// Register creates an account and performs an implicit login on success.
func (m *Manager) Register(ctx context.Context, registration users.Registration) Result {
	if !registration.ExperienceLevel.Valid() {
		return Result{
			Message: "invalid experience level",
			Fields:  []transport.FieldError{{Loc: "experience_level", Msg: "invalid experience level"}},
		}
	}

	if err := m.api.Post(ctx, registerPath, registration, nil); err != nil {
		return resultFromError(err)
	}
	return m.Login(ctx, registration.Email, registration.Password)
}

// Logout clears credentials and transitions to anonymous unconditionally.
// The server-side invalidation call is best effort: local clearing is the
// operation's real contract, so Logout always reports success.
func (m *Manager) Logout(ctx context.Context) Result {
	if err := m.api.Post(ctx, logoutPath, nil, nil); err != nil {
		log.Debug().Err(err).Msg("server-side logout failed, clearing locally")
	}

	m.clearCredentials()
	m.transition(StatusAnonymous, nil)
	return succeeded()
}

// UpdateProfile sends a merge-patch and replaces the cached user with the
// server's canonical response, never a local merge.
func (m *Manager) UpdateProfile(ctx context.Context, patch users.ProfileUpdate) Result {
	if patch.ExperienceLevel != nil && !patch.ExperienceLevel.Valid() {
		return Result{
			Message: "invalid experience level",
			Fields:  []transport.FieldError{{Loc: "experience_level", Msg: "invalid experience level"}},
		}
	}

	var profile users.Profile
	if err := m.api.Put(ctx, profilePath, patch, &profile); err != nil {
		return m.operationFailed(err)
	}

	m.cacheUser(&profile)
	m.transition(StatusAuthenticated, &profile)
	return succeeded()
}

// RefreshProfile re-fetches the canonical profile.
func (m *Manager) RefreshProfile(ctx context.Context) Result {
	var profile users.Profile
	if err := m.api.Get(ctx, profilePath, nil, &profile); err != nil {
		return m.operationFailed(err)
	}

	m.cacheUser(&profile)
	m.transition(StatusAuthenticated, &profile)
	return succeeded()
}

// operationFailed maps a mid-session failure. Recoverable errors leave the
// state unchanged; an authentication failure means the session is gone.
func (m *Manager) operationFailed(err error) Result {
	if errors.Is(err, transport.ErrAuthentication) {
		m.clearCredentials()
		m.transition(StatusAnonymous, nil)
	}
	return resultFromError(err)
}

func (m *Manager) cacheUser(profile *users.Profile) {
	if err := m.store.SetUser(profile); err != nil {
		log.Err(err).Msg("failed to cache user profile")
	}
}

func (m *Manager) clearCredentials() {
	if err := m.store.ClearAll(); err != nil {
		log.Err(err).Msg("failed to clear credentials")
	}
}

// tokenExpired decodes the access token without verifying its signature;
// the client only needs the expiry claim, the server remains the authority
// on validity. Undecodable tokens are not treated as expired.
func (m *Manager) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Before(m.nowTime())
}

// transition swaps the snapshot and notifies listeners outside the lock.
func (m *Manager) transition(status Status, user *users.Profile) Snapshot {
	m.lock.Lock()
	snapshot := Snapshot{Status: status, User: user}
	m.snapshot = snapshot
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.lock.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
	return snapshot
}
