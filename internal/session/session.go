// Package session owns the in-memory session state machine.
//
// A session is always in exactly one of three states: [Initializing] before
// hydration, [Anonymous], or [Authenticated] with a profile. The states form
// a sealed sum type so an authenticated session without a profile is
// unrepresentable.
package session

import (
	"context"
	"sync"

	"distream/internal/credentials"
	"distream/internal/models"
)

// State is the sealed interface over the three session states.
type State interface {
	sessionState()
}

// Initializing is the state before the one-time hydration from the
// credential store has run.
type Initializing struct{}

// Anonymous is the state with no valid session.
type Anonymous struct{}

// Authenticated carries the profile of the signed-in user.
type Authenticated struct {
	User models.User
}

func (Initializing) sessionState()  {}
func (Anonymous) sessionState()     {}
func (Authenticated) sessionState() {}

// Authenticator performs the remote authentication calls on behalf of the
// controller. Implemented by [distream/internal/services.Auth].
type Authenticator interface {
	Login(ctx context.Context, input models.LoginInput) (*models.Credential, error)
	Register(ctx context.Context, input models.RegisterInput) (*models.Credential, error)
	Logout(ctx context.Context) error
}

// Controller owns the process-wide session. It is constructed once at
// startup and passed by reference to every consumer; only the controller
// mutates the in-memory state.
//
// State-changing operations are serialized by a mutex, so overlapping login
// calls settle last-write-wins on the profile.
type Controller struct {
	mu        sync.Mutex
	state     State
	store     *credentials.Store
	auth      Authenticator
	observers map[int]func(State)
	nextObs   int
}

// NewController creates a controller in the Initializing state. Call
// Hydrate before consulting guards.
func NewController(store *credentials.Store, auth Authenticator) *Controller {
	return &Controller{
		state:     Initializing{},
		store:     store,
		auth:      auth,
		observers: make(map[int]func(State)),
	}
}

// Hydrate resolves the Initializing state from the credential store: a
// cached profile yields Authenticated, otherwise Anonymous. It runs at most
// once; later calls are no-ops. No network call is made. The cached profile
// is advisory and a stale token surfaces reactively through the first 401.
func (c *Controller) Hydrate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.state.(Initializing); !ok {
		return
	}

	if _, profile := c.store.Load(); profile != nil {
		c.state = Authenticated{User: *profile}
	} else {
		c.state = Anonymous{}
	}
}

// Current returns a snapshot of the session state.
func (c *Controller) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the authenticated profile, or false when the session is not
// authenticated.
func (c *Controller) User() (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.state.(Authenticated); ok {
		return s.User, true
	}
	return models.User{}, false
}

// Login authenticates against the remote API. On success the credential is
// persisted and the session becomes Authenticated. On failure the session is
// left untouched and the API error is returned unmodified so the caller can
// render it.
func (c *Controller) Login(ctx context.Context, input models.LoginInput) (models.User, error) {
	cred, err := c.auth.Login(ctx, input)
	if err != nil {
		return models.User{}, err
	}

	c.settle(*cred)
	return cred.User, nil
}

// Register creates an account and signs it in, with the same persistence and
// error semantics as Login.
func (c *Controller) Register(ctx context.Context, input models.RegisterInput) (models.User, error) {
	cred, err := c.auth.Register(ctx, input)
	if err != nil {
		return models.User{}, err
	}

	c.settle(*cred)
	return cred.User, nil
}

// Logout invalidates the remote session best-effort and unconditionally
// clears local state. A failing network call never leaves the client
// believing it is still authenticated, so the remote error is absorbed.
func (c *Controller) Logout(ctx context.Context) {
	// Remote outcome is deliberately ignored.
	_ = c.auth.Logout(ctx)

	c.mu.Lock()
	c.store.Clear()
	c.state = Anonymous{}
	state := c.state
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, state)
}

// UpdateUser replaces the in-memory profile and refreshes the durable cache
// best-effort. The caller is responsible for having persisted the change
// server-side already.
func (c *Controller) UpdateUser(user models.User) {
	c.mu.Lock()
	c.state = Authenticated{User: user}
	_ = c.store.SaveProfile(user)
	state := c.state
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, state)
}

// HandleUnauthorized is the involuntary-logout transition, registered as the
// HTTP client's unauthorized handler. It resets the session to Anonymous
// without calling the remote logout endpoint (the server already rejected
// the session) and notifies observers. Redundant deliveries from concurrent
// 401s are harmless: the reset is idempotent.
func (c *Controller) HandleUnauthorized() {
	c.mu.Lock()
	c.state = Anonymous{}
	state := c.state
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, state)
}

// Subscribe registers an observer for session state changes and returns its
// unsubscribe function. Delivery is synchronous on the goroutine performing
// the transition; observers must tolerate duplicate Anonymous deliveries.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

// settle persists a credential and moves the session to Authenticated. The
// last call to settle wins when logins overlap.
func (c *Controller) settle(cred models.Credential) {
	c.mu.Lock()
	_ = c.store.Save(cred.AccessToken, cred.User)
	c.state = Authenticated{User: cred.User}
	state := c.state
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, state)
}

// snapshot copies the observer list under the lock so notification happens
// outside of it.
func (c *Controller) snapshot() []func(State) {
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(observers []func(State), state State) {
	for _, fn := range observers {
		fn(state)
	}
}
