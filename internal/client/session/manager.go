package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/medquery/internal/client/client"
	"github.com/dmitrijs2005/medquery/internal/client/models"
	"github.com/dmitrijs2005/medquery/internal/client/storage"
	"github.com/dmitrijs2005/medquery/internal/client/tokenstore"
	"github.com/dmitrijs2005/medquery/internal/logging"
)

// Backend is the subset of the API the session needs.
type Backend interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error)
	Login(ctx context.Context, email, password string, role models.Role) (*models.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

var _ Backend = (*client.HTTPClient)(nil)

// Manager owns the session state. It is safe for concurrent use.
type Manager struct {
	backend       Backend
	tokens        *tokenstore.Store
	cache         *userCache
	log           logging.Logger
	verifyTimeout time.Duration

	mu       sync.Mutex
	state    State
	subs     map[int]chan State
	nextSub  int
	cancelBg context.CancelFunc

	startOnce sync.Once
	readyOnce sync.Once
	ready     chan struct{}
	wg        sync.WaitGroup
}

// NewManager wires a manager. s is the same storage the token store uses;
// nil means no persistent storage.
func NewManager(backend Backend, tokens *tokenstore.Store, s storage.Storage, log logging.Logger, opts ...Option) *Manager {
	log = logging.Component(log, "session")

	m := &Manager{
		backend: backend,
		tokens:  tokens,
		cache:   &userCache{storage: storage.NewSafe(s, log), log: log},
		log:     log,
		subs:    make(map[int]chan State),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start runs startup reconciliation once. It returns as soon as the session
// is resolved: immediately when there is no token or a cached user exists,
// otherwise after the server answers. A cached session is verified in the
// background.
//
// The returned error is informational. It wraps ErrVerificationFailed when
// a token could not be checked because the server was unreachable; the
// session is Unauthenticated in that case.
func (m *Manager) Start(ctx context.Context) error {
	first := false
	m.startOnce.Do(func() { first = true })
	if !first {
		return m.Wait(ctx)
	}
	defer m.markReady()

	m.tokens.Initialize(ctx)

	if !m.tokens.HasToken() {
		st, _ := m.apply(ctx, event{kind: evNoToken})
		m.log.Info(ctx, "session resolved", "status", st.Status, "reason", "no token")
		return nil
	}

	if cached, ok := m.cache.load(ctx); ok {
		st, _ := m.apply(ctx, event{kind: evCacheHit, user: cached})
		m.log.Info(ctx, "session resolved", "status", st.Status, "reason", "cached user", "email", cached.Email)
		if st.Authenticated() && !st.Verified {
			m.verifyInBackground(ctx, st.Epoch)
		}
		return nil
	}

	epoch := m.State().Epoch
	user, err := m.currentUser(ctx)
	ev := outcome(user, err, epoch)
	st, _ := m.apply(ctx, ev)
	m.log.Info(ctx, "session resolved", "status", st.Status, "reason", ev.kind)

	if ev.kind == evUnreachable {
		m.log.Warn(ctx, "could not verify session", "error", err)
		return fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	return nil
}

func (m *Manager) verifyInBackground(ctx context.Context, epoch uint64) {
	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	m.cancelBg = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		user, err := m.currentUser(bg)
		ev := outcome(user, err, epoch)
		if _, ok := m.apply(context.WithoutCancel(bg), ev); !ok {
			return
		}
		switch ev.kind {
		case evUnreachable:
			m.log.Warn(bg, "background verification failed, keeping cached session", "error", err)
		case evRejected:
			m.log.Info(bg, "server rejected cached session", "error", err)
		default:
			m.log.Debug(bg, "cached session confirmed")
		}
	}()
}

// outcome classifies a current-user result. Any response the server actually
// produced that is not a user is a rejection; everything else means the
// server could not be asked.
func outcome(user *models.User, err error, epoch uint64) event {
	switch {
	case err == nil:
		return event{kind: evVerified, user: user, epoch: epoch}
	case client.IsRejection(err):
		return event{kind: evRejected, epoch: epoch}
	default:
		return event{kind: evUnreachable, epoch: epoch}
	}
}

func (m *Manager) currentUser(ctx context.Context) (*models.User, error) {
	if m.verifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.verifyTimeout)
		defer cancel()
	}

	u, err := m.backend.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Email == "" {
		return nil, &client.APIError{Status: http.StatusOK, Message: "empty current user payload"}
	}
	normalized := u.Normalize()
	return &normalized, nil
}

// apply runs one transition and its storage side effects in a single
// critical section. It returns false when the event was fenced off by a
// newer epoch.
func (m *Manager) apply(ctx context.Context, e event) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	next, ok := reduce(prev, e)
	if !ok {
		m.log.Info(ctx, "discarding stale result", "event", e.kind, "issued_epoch", e.epoch, "epoch", prev.Epoch)
		return prev, false
	}

	switch {
	case e.kind == evRejected || e.kind == evLoggedOut:
		m.tokens.Clear(ctx)
		m.cache.erase(ctx)
	case next.Authenticated() && next.Verified && next.User != nil:
		m.cache.save(ctx, next.User)
	}

	m.state = next
	if next != prev {
		m.publish(next)
	}
	return next, true
}

// Login authenticates and, on success, makes the session Authenticated.
//
// A rejected login returns *AuthenticationError and leaves the session as it
// was. If the token is issued but the user cannot be fetched, the error wraps
// ErrLoginIncomplete; the token is kept and the session status is unchanged.
func (m *Manager) Login(ctx context.Context, email, password string, role models.Role, opts ...LoginOption) (*models.User, error) {
	var o loginOptions
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := m.backend.Login(ctx, email, password, role)
	if err != nil {
		m.log.Info(ctx, "login rejected", "email", email, "role", role, "error", err)
		return nil, authError(err, "login failed")
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, &AuthenticationError{Message: "no access token received"}
	}

	// Fence off verifications still running against the previous token
	// before the new one is stored.
	m.apply(ctx, event{kind: evLoginStarted})
	m.tokens.SetToken(ctx, resp.AccessToken, o.remember)

	user, err := m.currentUser(ctx)
	if err != nil {
		m.log.Warn(ctx, "token issued but user not confirmed", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoginIncomplete, err)
	}

	st, _ := m.apply(ctx, event{kind: evLoggedIn, user: user})
	m.markReady()
	m.log.Info(ctx, "logged in", "email", user.Email, "role", user.Role, "remember", o.remember)
	return st.User, nil
}

// Signup validates req locally, registers it and then logs in with the same
// credentials. The resulting token is not remembered.
func (m *Manager) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, &AuthenticationError{Message: err.Error(), Err: err}
	}

	if _, err := m.backend.Signup(ctx, req); err != nil {
		m.log.Info(ctx, "signup rejected", "email", req.Email, "error", err)
		return nil, authError(err, "signup failed")
	}
	return m.Login(ctx, req.Email, req.Password, req.Role)
}

// Logout always ends the local session, even when the backend call fails.
func (m *Manager) Logout(ctx context.Context) {
	defer func() {
		m.apply(context.WithoutCancel(ctx), event{kind: evLoggedOut})
		m.markReady()
		m.log.Info(ctx, "logged out")
	}()

	if err := m.backend.Logout(ctx); err != nil {
		m.log.Warn(ctx, "backend logout failed", "error", err)
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) User() (*models.User, bool) {
	st := m.State()
	return st.User, st.Authenticated()
}

func (m *Manager) IsAuthenticated() bool {
	return m.State().Authenticated()
}

// Claims decodes the current token without verifying it. ok is false when
// there is no token or it is not a JWT.
func (m *Manager) Claims() (tokenstore.Claims, bool) {
	token, ok := m.tokens.Token()
	if !ok {
		return tokenstore.Claims{}, false
	}
	c, err := tokenstore.Inspect(token)
	if err != nil {
		return tokenstore.Claims{}, false
	}
	return c, true
}

// Ready is closed once the session leaves Unresolved.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}

// Subscribe delivers the current state and every later change. A slow
// reader sees only the latest state. The returned func unsubscribes.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.state
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

// publish must be called with mu held.
func (m *Manager) publish(s State) {
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// Close stops a pending background verification, waits for it and closes
// all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.cancelBg
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}
