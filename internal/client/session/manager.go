// Package session owns the client's authentication state: it signs in and
// out against the server, keeps the bearer token and cached user in the
// local store, and tells subscribers when the state changes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/viktorkr/authapp/internal/client/api"
	"github.com/viktorkr/authapp/internal/client/models"
	"github.com/viktorkr/authapp/internal/client/store"
	"github.com/viktorkr/authapp/internal/logging"
)

// State is where the session machine currently stands.
type State string

const (
	// StateBootstrapping is the initial state, before the local store has
	// been consulted. No requests requiring auth should run yet.
	StateBootstrapping   State = "bootstrapping"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot is an immutable view of the session handed to subscribers.
type Snapshot struct {
	State State
	User  *models.User
}

// Manager drives the session state machine. All methods are safe for
// concurrent use.
type Manager struct {
	client api.Client
	store  store.SessionStore
	logger logging.Logger

	mu    sync.RWMutex
	state State
	token string
	user  *models.User

	subMu sync.Mutex
	subs  []chan Snapshot
}

func NewManager(client api.Client, sessions store.SessionStore, logger logging.Logger) *Manager {
	return &Manager{
		client: client,
		store:  sessions,
		logger: logger.With("module", "session"),
		state:  StateBootstrapping,
	}
}

// Current returns the current state and user.
func (m *Manager) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, User: cloneUser(m.user)}
}

// Token returns the current bearer token, empty when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Subscribe registers a listener for state transitions. The returned channel
// is buffered; a slow listener misses intermediate snapshots rather than
// blocking the manager. Cancel releases the subscription.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.subMu.Lock()
	m.subs = append(m.subs, ch)
	m.subMu.Unlock()

	cancel := func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}

	return ch, cancel
}

func (m *Manager) notify(s Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// drop the stale snapshot and queue the fresh one
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

func (m *Manager) setSession(token string, user *models.User) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.token = token
	m.user = cloneUser(user)
	snap := Snapshot{State: m.state, User: cloneUser(m.user)}
	m.mu.Unlock()

	m.notify(snap)
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	m.state = StateUnauthenticated
	m.token = ""
	m.user = nil
	snap := Snapshot{State: m.state}
	m.mu.Unlock()

	m.notify(snap)
}

// Bootstrap restores the session from the local store. A stored token is
// re-validated against the server before it is trusted: it may have expired
// or been invalidated (secret rotation) since last use. On any failure the
// persisted state is discarded and the machine settles unauthenticated;
// Bootstrap itself never fails. The machine always leaves the bootstrapping
// state.
func (m *Manager) Bootstrap(ctx context.Context) {
	tokenBytes, userBytes, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error(ctx, err.Error())
		m.clearSession()
		return
	}

	if len(tokenBytes) == 0 || len(userBytes) == 0 {
		m.clearSession()
		return
	}

	token := string(tokenBytes)

	user, err := m.client.Profile(ctx, token)
	if err != nil {
		m.logger.Info(ctx, "stored session rejected, signing out")
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Error(ctx, err.Error())
		}
		m.clearSession()
		return
	}

	// adopt the refreshed user and re-persist it
	if err := m.persist(ctx, token, user); err != nil {
		m.logger.Error(ctx, err.Error())
	}
	m.setSession(token, user)
}

// SignUp creates an account and enters the authenticated state.
func (m *Manager) SignUp(ctx context.Context, req api.SignUpRequest) error {
	session, err := m.client.SignUp(ctx, req)
	if err != nil {
		return err
	}
	return m.adopt(ctx, session)
}

// SignIn authenticates and enters the authenticated state.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	session, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return m.adopt(ctx, session)
}

func (m *Manager) adopt(ctx context.Context, session *models.Session) error {
	if err := m.persist(ctx, session.Token, session.User); err != nil {
		return err
	}
	m.setSession(session.Token, session.User)
	return nil
}

func (m *Manager) persist(ctx context.Context, token string, user *models.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, []byte(token), userBytes)
}

// SignOut forgets the local session unconditionally and enters the
// unauthenticated state. Tokens are stateless, so there is no server call
// here and nothing to fail: a clear that cannot reach disk is logged, the
// in-memory session is dropped regardless.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, err.Error())
	}
	m.clearSession()
}

// Profile fetches the authenticated user's profile from the server. A
// rejected token drops the session.
func (m *Manager) Profile(ctx context.Context) (*models.User, error) {
	token := m.Token()
	if token == "" {
		return nil, api.ErrUnauthorized
	}

	user, err := m.client.Profile(ctx, token)
	if err != nil {
		m.expireOnUnauthorized(ctx, err)
		return nil, err
	}

	m.setSession(token, user)
	return user, nil
}

// UpdateProfile changes the user's name fields and refreshes the cached user.
func (m *Manager) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*models.User, error) {
	token := m.Token()
	if token == "" {
		return nil, api.ErrUnauthorized
	}

	user, err := m.client.UpdateProfile(ctx, token, update)
	if err != nil {
		m.expireOnUnauthorized(ctx, err)
		return nil, err
	}

	if err := m.persist(ctx, token, user); err != nil {
		m.logger.Error(ctx, err.Error())
	}
	m.setSession(token, user)
	return user, nil
}

func (m *Manager) expireOnUnauthorized(ctx context.Context, err error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return
	}
	m.logger.Info(ctx, "token rejected, signing out")
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, err.Error())
	}
	m.clearSession()
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
