// Package session owns the authentication state of the storefront client.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/credentials"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/state"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const (
	msgLogin    = "Failed to login"
	msgRegister = "Failed to register"
	msgRefresh  = "Failed to refresh session"

	logoutTimeout = 5 * time.Second
)

var ErrNoRefreshToken = errors.New("session: no refresh token stored")

type API interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, bearer string) error
}

type Snapshot struct {
	Authenticated bool         `json:"isAuthenticated"`
	User          *models.User `json:"user"`
	Status        state.Status `json:"status"`
	Error         string       `json:"error,omitempty"`
}

type Session struct {
	api       API
	store     credentials.Store
	publisher events.Publisher

	mu sync.Mutex
	tr *state.Tracker
	// wmu orders credential writes of login, refresh and logout.
	wmu           sync.Mutex
	authenticated bool
	user          *models.User

	logouts sync.WaitGroup
}

type Option func(*options)

type options struct {
	strict    bool
	publisher events.Publisher
}

func WithStrictOrdering() Option {
	return func(o *options) { o.strict = true }
}

func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// New seeds the session from the credential store. A stored token counts as
// authenticated; it is not verified.
func New(ctx context.Context, api API, store credentials.Store, opts ...Option) (*Session, error) {
	o := options{publisher: events.NopPublisher{}}
	for _, opt := range opts {
		opt(&o)
	}

	creds, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	s := &Session{
		api:       api,
		store:     store,
		publisher: o.publisher,
		tr:        state.NewTracker(o.strict),
	}
	if creds.Token != "" {
		s.authenticated = true
		s.user = creds.User
	}
	return s, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Authenticated: s.authenticated,
		Status:        s.tr.Status(),
		Error:         s.tr.Err(),
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	l := logging.FromContext(ctx).With("container", "session", "op", "login")

	res, err := state.Run(ctx, &s.mu, s.tr, state.Op[models.AuthResponse]{
		Fallback: msgLogin,
		Call: func(ctx context.Context) (models.AuthResponse, error) {
			return s.api.Login(ctx, email, password)
		},
		Serial: &s.wmu,
		Persist: func(ctx context.Context, res models.AuthResponse) error {
			u := res.User()
			if err := s.store.Set(ctx, credentials.Credentials{
				Token:        res.Token,
				RefreshToken: res.RefreshToken,
				User:         &u,
			}); err != nil {
				return fmt.Errorf("store credentials: %w", err)
			}
			return nil
		},
		Apply: func(res models.AuthResponse) error {
			u := res.User()
			s.authenticated = true
			s.user = &u
			return nil
		},
		Reject: func() {
			s.authenticated = false
			s.user = nil
		},
	})
	if err != nil {
		l.Warn("login_failed", "status", "rejected", "error", err)
		return err
	}

	l.Info("login_success", "status", "fulfilled", "user_id", res.UserID)
	events.Publish(ctx, s.publisher, events.TopicUser, strconv.FormatInt(res.UserID, 10), map[string]any{
		"type":   events.UserLoggedIn,
		"userID": res.UserID,
		"email":  res.Email,
	})
	return nil
}

// Register never changes authentication state. The response body is returned
// as the server sent it.
func (s *Session) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResult, error) {
	l := logging.FromContext(ctx).With("container", "session", "op", "register")

	res, err := state.Run(ctx, &s.mu, s.tr, state.Op[models.RegisterResult]{
		Fallback: msgRegister,
		Call: func(ctx context.Context) (models.RegisterResult, error) {
			return s.api.Register(ctx, req)
		},
	})
	if err != nil {
		l.Warn("register_failed", "status", "rejected", "error", err)
		return nil, err
	}

	l.Info("register_success", "status", "fulfilled")
	events.Publish(ctx, s.publisher, events.TopicUser, req.Email, map[string]any{
		"type":  events.UserRegistered,
		"email": req.Email,
	})
	return res, nil
}

// Refresh exchanges the stored refresh token for a new pair. It is only ever
// called explicitly. A rejected refresh leaves authentication as it was.
func (s *Session) Refresh(ctx context.Context) error {
	l := logging.FromContext(ctx).With("container", "session", "op", "refresh")

	creds, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	_, err = state.Run(ctx, &s.mu, s.tr, state.Op[models.TokenPair]{
		Fallback: msgRefresh,
		Call: func(ctx context.Context) (models.TokenPair, error) {
			if creds.RefreshToken == "" {
				return models.TokenPair{}, ErrNoRefreshToken
			}
			return s.api.Refresh(ctx, creds.RefreshToken)
		},
		Serial: &s.wmu,
		Persist: func(ctx context.Context, pair models.TokenPair) error {
			next := creds
			next.Token = pair.Token
			if pair.RefreshToken != "" {
				next.RefreshToken = pair.RefreshToken
			}
			return s.store.Set(ctx, next)
		},
	})
	if err != nil {
		l.Warn("refresh_failed", "status", "rejected", "error", err)
		return err
	}
	l.Info("refresh_success", "status", "fulfilled")
	return nil
}

// Logout clears local state before returning. Login and refresh results still
// in flight are dropped. The server is told afterwards in the background with
// the token that was just removed; that call may fail silently.
func (s *Session) Logout(ctx context.Context) {
	l := logging.FromContext(ctx).With("container", "session", "op", "logout")

	s.wmu.Lock()
	prev, err := s.store.Get(ctx)
	if err != nil {
		l.Warn("logout_read_failed", "error", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		l.Error("logout_clear_failed", "error", err)
	}

	s.mu.Lock()
	s.tr.Invalidate()
	s.tr.Reset()
	s.authenticated = false
	s.user = nil
	s.mu.Unlock()
	s.wmu.Unlock()
	s.tr.Notify(state.Idle)

	l.Info("logout_success", "status", "idle")

	var key string
	if prev.User != nil {
		key = strconv.FormatInt(prev.User.ID, 10)
	}
	events.Publish(ctx, s.publisher, events.TopicUser, key, map[string]any{
		"type": events.UserLoggedOut,
	})

	bg := context.WithoutCancel(ctx)
	s.logouts.Add(1)
	go func() {
		defer s.logouts.Done()
		ctx, cancel := context.WithTimeout(bg, logoutTimeout)
		defer cancel()
		if err := s.api.Logout(ctx, prev.Token); err != nil {
			logging.FromContext(ctx).Debug("logout_notify_failed", "error", err)
		}
	}()
}

// Wait blocks until background logout notifications have finished.
func (s *Session) Wait() {
	s.logouts.Wait()
}

func (s *Session) ClearError() {
	s.mu.Lock()
	s.tr.ClearError()
	st := s.tr.Status()
	s.mu.Unlock()
	s.tr.Notify(st)
}

// IsAuthenticated reports whether an access token is stored.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	creds, err := s.store.Get(ctx)
	return err == nil && creds.Token != ""
}

// Claims decodes the stored access token without verifying it.
func (s *Session) Claims(ctx context.Context) (*tokens.AccessClaims, error) {
	creds, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return tokens.AccessClaimsUnverified(creds.Token)
}

func (s *Session) Subscribe(l state.Listener) {
	s.tr.Subscribe(l)
}

// Close makes the session ignore results that arrive later.
func (s *Session) Close() {
	s.mu.Lock()
	s.tr.Close()
	s.mu.Unlock()
}

func (s *Session) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tr.Status()
}

// User returns a copy of the current identity, or nil when anonymous.
func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}
