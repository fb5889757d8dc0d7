// Package session holds the in-memory session state: the authenticated user,
// the loading flag, and the last operation error. The Manager is the single
// writer the UI observes; only the auth operations mutate it.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/models"
	"github.com/dmitrijs2005/authvault/internal/store"
	"golang.org/x/sync/errgroup"
)

// Snapshot is an immutable copy of the session state handed to observers.
// Err is the out-of-band last-error slot; empty means no error.
type Snapshot struct {
	models.AuthState
	Err string
}

// Listener receives a snapshot after every state transition.
type Listener func(Snapshot)

// Manager is the session state container.
//
// Invariant: IsAuthenticated == (User != nil), maintained by keeping all
// mutation paths inside this package.
type Manager struct {
	mu    sync.RWMutex
	store store.Store
	log   logging.Logger

	state models.AuthState
	err   string

	nextSub int
	subs    map[int]Listener
}

// NewManager returns a Manager in the initial loading state: the UI should
// not render either the public or the protected area until Load settles.
func NewManager(st store.Store, log logging.Logger) *Manager {
	return &Manager{
		store: st,
		log:   log,
		state: models.AuthState{IsLoading: true},
		subs:  make(map[int]Listener),
	}
}

// Load restores the persisted session on process start. The active user and
// the session token are read in parallel; the session is considered live
// only when both are present. The stored user is trusted verbatim — the
// token is opaque and is not verified here, and the user is not re-checked
// against the registered-users list.
//
// Any failure degrades to logged out; errors are logged, never propagated.
func (m *Manager) Load(ctx context.Context) {
	var rawUser, rawToken []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawUser, err = m.store.Get(gctx, store.KeyUser)
		return err
	})
	g.Go(func() error {
		var err error
		rawToken, err = m.store.Get(gctx, store.KeyToken)
		return err
	})

	if err := g.Wait(); err != nil {
		m.log.Error(ctx, "failed to restore session, starting logged out", "error", err)
		m.SetLoggedOut()
		return
	}

	if rawUser == nil || rawToken == nil {
		m.SetLoggedOut()
		return
	}

	var u models.User
	if err := json.Unmarshal(rawUser, &u); err != nil {
		m.log.Error(ctx, "stored user unparseable, starting logged out", "error", err)
		m.SetLoggedOut()
		return
	}

	m.SetAuthenticated(&u)
	m.log.Info(ctx, "session restored", "email", u.Email)
}

// SetLoading raises the loading flag, leaving user and error untouched.
func (m *Manager) SetLoading() {
	m.mu.Lock()
	m.state.IsLoading = true
	m.mu.Unlock()
	m.notify()
}

// SetAuthenticated settles the session on the given user and clears the
// error slot.
func (m *Manager) SetAuthenticated(u *models.User) {
	m.mu.Lock()
	m.state = models.AuthState{User: u, IsAuthenticated: u != nil, IsLoading: false}
	m.err = ""
	m.mu.Unlock()
	m.notify()
}

// SetLoggedOut settles the session logged out and clears the error slot.
func (m *Manager) SetLoggedOut() {
	m.mu.Lock()
	m.state = models.AuthState{}
	m.err = ""
	m.mu.Unlock()
	m.notify()
}

// Fail records an operation error and drops the loading flag. The
// authenticated user, if any, is left in place: a failed login attempt on
// top of a live session must not log the user out.
func (m *Manager) Fail(msg string) {
	m.mu.Lock()
	m.state.IsLoading = false
	m.err = msg
	m.mu.Unlock()
	m.notify()
}

// ClearError empties the error slot without touching the rest of the state.
func (m *Manager) ClearError() {
	m.mu.Lock()
	m.err = ""
	m.mu.Unlock()
	m.notify()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{AuthState: m.state, Err: m.err}
}

// Subscribe registers a listener invoked synchronously after every state
// transition. The returned function removes the subscription.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = l
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	snap := Snapshot{AuthState: m.state, Err: m.err}
	listeners := make([]Listener, 0, len(m.subs))
	for _, l := range m.subs {
		listeners = append(listeners, l)
	}
	m.mu.RUnlock()

	for _, l := range listeners {
		l(snap)
	}
}
