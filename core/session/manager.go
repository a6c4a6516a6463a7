package session

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/somalms/soma/core"
	"github.com/somalms/soma/core/pubsub"
	"github.com/somalms/soma/core/user"
)

// State is the coarse authentication state machine:
// Anonymous -> Authenticating -> Authenticated, back to Anonymous on logout
// or session invalidation.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

type (
	// Auth is the login/register response: the pair the session is made of.
	Auth struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	Credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	NewAccount struct {
		Nom             string `json:"nom" validate:"required"`
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required,min=6"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
		Tel             string `json:"tel,omitempty" validate:"omitempty,phone"`
		Ville           string `json:"ville,omitempty"`
	}

	// AuthAPI is the slice of the backend the manager needs.
	AuthAPI interface {
		Login(ctx context.Context, creds Credentials) (Auth, error)
		Register(ctx context.Context, acct NewAccount) (Auth, error)
	}

	// Manager mirrors the session in memory, drives the auth state machine
	// and broadcasts changes on the bus.
	Manager struct {
		store  *Store
		api    AuthAPI
		bus    *pubsub.Bus
		logger core.Logger

		mu      sync.Mutex
		state   State
		usr     *user.User
		loading bool
	}
)

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.Nom = core.CleanString(na.Nom)
	na.Email = core.CleanString(na.Email, true /* lower */)
	return validate.Struct(na)
}

// NewManager rehydrates the session from the store: a stored, still-valid
// token brings the manager up Authenticated without a network round-trip.
func NewManager(store *Store, api AuthAPI, bus *pubsub.Bus, logger core.Logger) *Manager {
	m := &Manager{
		store:  store,
		api:    api,
		bus:    bus,
		logger: logger,
	}
	m.rehydrate()
	return m
}

func (m *Manager) rehydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loading = true
	defer func() { m.loading = false }()

	if m.store.IsLoggedIn() && IsTokenValid(m.store.Token()) {
		m.usr = m.store.User()
		m.state = Authenticated
		return
	}
	// expired or partial leftovers are not worth keeping around
	m.store.Logout()
	m.state = Anonymous
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Loading is true only during rehydration and an in-flight login/register.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CurrentUser returns a copy of the in-memory user, or nil when anonymous.
func (m *Manager) CurrentUser() *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usr == nil {
		return nil
	}
	usr := *m.usr
	return &usr
}

// Login authenticates and persists the session. The resolved Auth is returned
// to the caller directly: immediate post-login branching must use this value,
// not manager state.
func (m *Manager) Login(ctx context.Context, creds Credentials) (Auth, error) {
	m.setAuthenticating()

	auth, err := m.api.Login(ctx, creds)
	if err != nil {
		m.setAnonymous()
		return Auth{}, errors.Wrap(err, "logging in")
	}
	return m.establish(auth)
}

// Register creates an account and logs straight into it.
func (m *Manager) Register(ctx context.Context, acct NewAccount) (Auth, error) {
	m.setAuthenticating()

	auth, err := m.api.Register(ctx, acct)
	if err != nil {
		m.setAnonymous()
		return Auth{}, errors.Wrap(err, "registering")
	}
	return m.establish(auth)
}

func (m *Manager) establish(auth Auth) (Auth, error) {
	if err := m.store.SaveAuth(auth.Token, auth.User); err != nil {
		m.setAnonymous()
		return Auth{}, errors.Wrap(err, "persisting session")
	}

	m.mu.Lock()
	usr := auth.User
	m.usr = &usr
	m.state = Authenticated
	m.loading = false
	m.mu.Unlock()

	m.bus.Publish(pubsub.TopicSessionState, Authenticated)
	return auth, nil
}

// Logout clears the persisted and in-memory session.
func (m *Manager) Logout() {
	m.store.Logout()
	m.setAnonymous()
}

// Invalidate is the 401 path: same as Logout, but logged, since it means the
// backend rejected a token we thought was fine.
func (m *Manager) Invalidate() {
	m.logger.Info("session invalidated by backend")
	m.Logout()
}

// UpdateUserData shallow-merges a profile patch into the in-memory and stored
// user without a round-trip, then broadcasts the change.
func (m *Manager) UpdateUserData(patch user.Patch) error {
	m.mu.Lock()
	if m.usr == nil {
		m.mu.Unlock()
		return core.ErrNotAuthenticated
	}
	merged := m.usr.Apply(patch)
	m.usr = &merged
	m.mu.Unlock()

	if tok := m.store.Token(); tok != "" {
		if err := m.store.SaveAuth(tok, merged); err != nil {
			m.logger.Error("persisting merged user", err)
		}
	}
	m.bus.Publish(pubsub.TopicUserUpdated, merged)
	return nil
}

func (m *Manager) setAuthenticating() {
	m.mu.Lock()
	m.state = Authenticating
	m.loading = true
	m.mu.Unlock()
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	m.usr = nil
	m.state = Anonymous
	m.loading = false
	m.mu.Unlock()
	m.bus.Publish(pubsub.TopicSessionState, Anonymous)
}
