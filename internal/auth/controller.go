// Package auth orchestrates the login/registration/logout lifecycle over the
// session store and API client, and owns the client's view of "who is signed
// in". Navigation is delegated to a presentation-layer adapter so the
// controller stays testable without a UI.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hoyo-tech/hoyo-client/internal/api"
	"github.com/hoyo-tech/hoyo-client/internal/model/account"
	"github.com/hoyo-tech/hoyo-client/internal/session"
)

// Status is the controller's authentication state.
type Status int

const (
	// StatusUnknown means CheckAuth has not completed yet.
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// Navigator performs client-side navigation on behalf of the controller.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// NavigateTo calls the wrapped function.
func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Result is the outcome of a login or registration attempt. Failures are
// reported here rather than as errors so UI paths never need error handling.
type Result struct {
	Success    bool
	Error      string
	RedirectTo string
}

// Controller tracks the authenticated user.
type Controller struct {
	client *api.Client
	store  session.Store
	nav    Navigator
	logger zerolog.Logger

	mu            sync.RWMutex
	status        Status
	user          *account.User
	lastAttempted string
}

// NewController builds a controller in the unknown state. nav may be nil,
// in which case state transitions happen without navigation side effects.
func NewController(client *api.Client, store session.Store, nav Navigator, logger zerolog.Logger) *Controller {
	return &Controller{
		client: client,
		store:  store,
		nav:    nav,
		logger: logger,
		status: StatusUnknown,
	}
}

// Status reports the current authentication state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// User returns a copy of the signed-in user, if any.
func (c *Controller) User() (account.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return account.User{}, false
	}
	return *c.user, true
}

// RememberLocation records the protected location the user last tried to
// reach; a subsequent successful login redirects there.
func (c *Controller) RememberLocation(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAttempted = path
}

// CheckAuth verifies the stored token against the backend. A valid token
// refreshes the cached user and moves to authenticated; anything else tears
// the session down and moves to anonymous.
func (c *Controller) CheckAuth(ctx context.Context) Status {
	token, ok := c.store.Token()
	if !ok || token == "" {
		c.become(StatusAnonymous, nil)
		return StatusAnonymous
	}

	user, err := c.client.Auth().CurrentUser(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("auth check failed")
		// A 401 already cleared the store inside the API client; clear for
		// every other failure too so a stale token cannot linger.
		var authErr *api.AuthError
		if !errors.As(err, &authErr) {
			if clearErr := c.store.Clear(); clearErr != nil {
				c.logger.Warn().Err(clearErr).Msg("failed to clear session")
			}
		}
		c.become(StatusAnonymous, nil)
		return StatusAnonymous
	}

	if err := c.store.Set(token, user); err != nil {
		c.logger.Warn().Err(err).Msg("failed to refresh stored user")
	}
	c.become(StatusAuthenticated, &user)
	return StatusAuthenticated
}

// Login authenticates with email and password. On success the session is
// stored and the result carries the redirect target: the remembered location
// if one was set, the application root otherwise. On failure the session is
// left exactly as it was.
func (c *Controller) Login(ctx context.Context, email, password string) Result {
	creds, err := c.client.Auth().Login(ctx, email, password)
	if err != nil {
		return failure(err, "Login failed")
	}
	if creds.Token == "" {
		return Result{Success: false, Error: "Login failed"}
	}

	if err := c.store.Set(creds.Token, creds.User); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	c.mu.Lock()
	target := c.lastAttempted
	c.lastAttempted = ""
	c.mu.Unlock()
	if target == "" {
		target = "/"
	}

	c.become(StatusAuthenticated, &creds.User)
	if c.nav != nil {
		c.nav.NavigateTo(target)
	}
	return Result{Success: true, RedirectTo: target}
}

// Register creates an account and signs it in. The redirect target is always
// the application root.
func (c *Controller) Register(ctx context.Context, username, email, password string) Result {
	creds, err := c.client.Auth().Register(ctx, username, email, password)
	if err != nil {
		return failure(err, "Registration failed")
	}
	if creds.Token == "" {
		return Result{Success: false, Error: "Registration failed"}
	}

	if err := c.store.Set(creds.Token, creds.User); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	c.become(StatusAuthenticated, &creds.User)
	if c.nav != nil {
		c.nav.NavigateTo("/")
	}
	return Result{Success: true, RedirectTo: "/"}
}

// Logout clears the session unconditionally and navigates to the login entry
// point. The backend token stays valid; no invalidation call is made.
func (c *Controller) Logout() {
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear session on logout")
	}
	c.become(StatusAnonymous, nil)
	if c.nav != nil {
		c.nav.NavigateTo(LoginPath)
	}
}

// UpdateUser merges the patch into the cached user and persists it locally.
// No backend call is made; the server copy may go stale until the next
// CheckAuth.
func (c *Controller) UpdateUser(patch account.UserPatch) (account.User, error) {
	token, ok := c.store.Token()
	if !ok {
		return account.User{}, errors.New("no active session")
	}
	user, ok := c.store.User()
	if !ok {
		return account.User{}, errors.New("no active session")
	}

	updated := patch.Apply(user)
	if err := c.store.Set(token, updated); err != nil {
		return account.User{}, err
	}

	c.mu.Lock()
	c.user = &updated
	c.mu.Unlock()
	return updated, nil
}

// become swaps status and cached user together.
func (c *Controller) become(status Status, user *account.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.user = user
}

// failure maps an API error to a UI-facing result.
func failure(err error, fallback string) Result {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return Result{Success: false, Error: httpErr.Message(fallback)}
	}
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return Result{Success: false, Error: authErr.Message(fallback)}
	}
	return Result{Success: false, Error: fallback}
}
