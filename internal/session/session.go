// Package session owns the authenticated session state machine of the
// CLI: Anonymous → Authenticating → Authenticated, and back to Anonymous
// on logout or a terminal refresh failure. It orchestrates login, the
// current-user fetch and the cold-start bootstrap against the panel API,
// and exposes the snapshot the access guard decides on.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vmforge/vmforge-cli/internal/api"
	"github.com/vmforge/vmforge-cli/internal/config"
	"github.com/vmforge/vmforge-cli/internal/notify"
)

// ErrLoginSuperseded is returned to a login attempt whose result was
// discarded because a newer attempt started while it was in flight.
// Policy for concurrent logins is last-write-wins: only the most
// recently initiated attempt may end up authenticated.
var ErrLoginSuperseded = errors.New("login superseded by a newer attempt")

// User is the authenticated user's profile
type User struct {
	ID       string
	Username string
	Role     Role
}

// State is an immutable snapshot of the session.
// Authenticated implies User is non-nil and a token pair is stored.
type State struct {
	User          *User
	Authenticated bool
	Loading       bool
}

// Role returns the user's role, defaulting to viewer when anonymous
func (s State) Role() Role {
	if s.User == nil {
		return RoleViewer
	}
	return s.User.Role
}

// authAPI is the slice of the panel API the session depends on
type authAPI interface {
	Login(ctx context.Context, creds api.Credentials) (config.TokenPair, error)
	Me(ctx context.Context) (*api.UserProfile, error)
}

// Credentials are the username/password pair entered by the user
type Credentials struct {
	Username string
	Password string
}

// Session is the authenticated session state machine
type Session struct {
	api      authAPI
	tokens   *config.Manager
	notifier notify.Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	user     *User
	auth     bool
	inflight int
	// gen invalidates stale login/fetch completions; bumped by every
	// login start and every transition to Anonymous
	gen uint64

	bootstrapOnce sync.Once
	ready         chan struct{}
}

// New creates a session in the Anonymous state
func New(authClient authAPI, tokens *config.Manager, notifier notify.Notifier, log zerolog.Logger) *Session {
	return &Session{
		api:      authClient,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With().Str("component", "session").Logger(),
		ready:    make(chan struct{}),
	}
}

// State returns the current session snapshot
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Authenticated: s.auth,
		Loading:       s.inflight > 0,
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Login authenticates with the panel and transitions to Authenticated.
// On failure the session stays Anonymous and the returned error carries
// a human-readable message; callers decide how to present it. Loading
// is reset on every exit path.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	pair, err := s.api.Login(ctx, api.Credentials{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		msg := failureMessage(err, "Login failed")
		s.log.Debug().Err(err).Msg("login rejected")
		s.notifier.Error(msg)
		return errors.New(msg)
	}

	if err := s.persistLogin(gen, pair); err != nil {
		if errors.Is(err, ErrLoginSuperseded) {
			return err
		}
		msg := failureMessage(err, "Login failed")
		s.notifier.Error(msg)
		return errors.New(msg)
	}

	if err := s.fetchUser(ctx, gen); err != nil {
		if errors.Is(err, ErrLoginSuperseded) {
			return err
		}
		msg := failureMessage(err, "Login failed")
		s.notifier.Error(msg)
		return errors.New(msg)
	}

	s.notifier.Success("Login successful")
	return nil
}

// persistLogin stores the pair if the attempt is still current. The
// staleness check and the store write form one critical section, so a
// superseded attempt can never clobber a newer attempt's pair.
func (s *Session) persistLogin(gen uint64, pair config.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return ErrLoginSuperseded
	}
	return s.tokens.SaveTokens(pair)
}

// FetchUser validates the stored token against the panel and stores the
// resulting profile. Any failure degrades to Logout so the session never
// claims to be authenticated without user data.
func (s *Session) FetchUser(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	return s.fetchUser(ctx, gen)
}

func (s *Session) fetchUser(ctx context.Context, gen uint64) error {
	profile, err := s.api.Me(ctx)
	if err != nil {
		if !s.stale(gen) {
			s.log.Debug().Err(err).Msg("current-user fetch failed, dropping session")
			s.logout(false)
		}
		return fmt.Errorf("failed to fetch current user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return ErrLoginSuperseded
	}

	s.user = &User{
		ID:       profile.ID,
		Username: profile.Username,
		Role:     ParseRole(profile.Role),
	}
	s.auth = true
	s.log.Debug().Str("username", profile.Username).Str("role", profile.Role).Msg("authenticated")
	return nil
}

// Logout clears the stored token pair and returns to Anonymous.
// Idempotent: logging out while already Anonymous is a no-op beyond
// re-clearing storage.
func (s *Session) Logout() {
	if s.logout(false) {
		s.notifier.Info("Logged out")
	}
}

// Invalidate is the session-expired hook for the API client: the refresh
// token was rejected and the token store already cleared. The session
// drops to Anonymous and the user is told to log in again.
func (s *Session) Invalidate() {
	if s.logout(true) {
		s.notifier.Error("Session expired, please log in again")
	}
}

// logout transitions to Anonymous and reports whether the session was
// authenticated before. tokensCleared skips the redundant store write
// when the API client already cleared the pair.
func (s *Session) logout(tokensCleared bool) bool {
	s.mu.Lock()
	wasAuth := s.auth
	s.gen++
	s.user = nil
	s.auth = false
	s.mu.Unlock()

	if !tokensCleared {
		if err := s.tokens.ClearTokens(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear stored tokens")
		}
	}
	return wasAuth
}

// Initialize reconciles persisted storage with in-memory state after a
// cold start: a stored access token is validated via FetchUser, a
// rejected one self-heals into a clean Anonymous state. Runs at most
// once; later calls return immediately.
func (s *Session) Initialize(ctx context.Context) {
	s.bootstrapOnce.Do(func() {
		defer close(s.ready)

		if !s.tokens.HasTokens() {
			return
		}

		s.mu.Lock()
		s.inflight++
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
		}()

		// Failure already degraded to Logout.
		_ = s.FetchUser(ctx)
	})
}

// WaitReady blocks until the bootstrap has settled, so guards never
// decide against a half-initialized snapshot
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

// failureMessage extracts a human-readable message from a request error
func failureMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsValidation() {
			parts := make([]string, len(apiErr.Fields))
			for i, f := range apiErr.Fields {
				parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
			}
			return strings.Join(parts, ", ")
		}
		return apiErr.Message
	}
	return fmt.Sprintf("%s: %v", fallback, err)
}
