// Package auth performs the session calls against the auth service: login,
// token refresh and logout.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jrsteele09/go-zonasi-client/clients"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/token"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	LoginPath  = "/auth/login"
	LogoutPath = "/auth/logout"
)

// Scheduler is the proactive refresh chain the service arms on login and cancels on logout.
type Scheduler interface {
	ScheduleNext(ctx context.Context) error
	Cancel()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginData struct {
	User        *users.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

type refreshData struct {
	AccessToken string `json:"access_token"`
}

// Service owns the login and logout mutations of the session state.
type Service struct {
	client *clients.Client
	state  *sessions.State

	mu        sync.RWMutex
	scheduler Scheduler
	onLogout  []func()
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithScheduler sets the refresh scheduler.
func WithScheduler(s Scheduler) ServiceOption {
	return func(as *Service) {
		as.scheduler = s
	}
}

// NewService creates the auth service. client must be bound to the auth backend.
func NewService(client *clients.Client, state *sessions.State, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] auth client is required")
	}
	if state == nil {
		return nil, errors.New("[NewService] session state is required")
	}

	s := &Service{
		client: client,
		state:  state,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// SetScheduler wires the scheduler once the refresh coordinator exists.
func (s *Service) SetScheduler(scheduler Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = scheduler
}

// OnLogout registers fn to run whenever the session is reset.
func (s *Service) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Login authenticates and populates the session. On failure the backend
// message is recorded as the session's login error and the error returned.
func (s *Service) Login(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		s.state.SetLoginError(err.Error())
		return err
	}

	resp, err := s.client.Do(ctx, &clients.Request{
		Method:  http.MethodPost,
		Path:    LoginPath,
		Body:    loginRequest{Username: username, Password: password},
		NoRetry: true,
	})
	if err != nil {
		s.state.SetLoginError(apperrors.Message(err))
		log.Err(err).Str("username", username).Msg("Login failed")
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			return fmt.Errorf("login: %w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return errors.Wrap(err, "login")
	}

	env, err := clients.Decode[loginData](resp)
	if err != nil {
		s.state.SetLoginError(err.Error())
		return errors.Wrap(err, "login")
	}
	if env.Data.AccessToken == "" {
		s.state.SetLoginError(MissingAccessTokenErr.Error())
		return MissingAccessTokenErr
	}
	if env.Data.User == nil {
		s.state.SetLoginError(MissingUserErr.Error())
		return MissingUserErr
	}

	bearer := token.NewBearer(env.Data.AccessToken)
	s.state.SetLogin(env.Data.User, bearer)
	log.Info().
		Str("username", env.Data.User.Username).
		Str("role", string(env.Data.User.Role)).
		Time("expiry", bearer.Expiry).
		Msg("Logged in")

	if bearer.Expiry.IsZero() {
		log.Warn().Msg("Access token has no readable expiry, proactive refresh disabled")
		return nil
	}
	if sched := s.getScheduler(); sched != nil {
		if err := sched.ScheduleNext(ctx); err != nil {
			return errors.Wrap(err, "login: schedule refresh")
		}
	}
	return nil
}

// RefreshToken exchanges the refresh cookie for a new access token. It does
// not touch the session; callers go through the refresh coordinator.
func (s *Service) RefreshToken(ctx context.Context) (string, error) {
	env, err := clients.Post[refreshData](ctx, s.client, clients.RefreshPath, nil)
	if err != nil {
		return "", errors.Wrap(err, "refresh")
	}
	if env.Data.AccessToken == "" {
		return "", MissingAccessTokenErr
	}
	return env.Data.AccessToken, nil
}

// Logout ends the session on the backend and resets it locally. The local
// reset happens even when the backend call fails. Logging out with no session
// is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	if !s.state.IsLoggedIn() && s.state.User() == nil {
		s.resetLocal()
		return nil
	}

	_, err := s.client.Do(ctx, &clients.Request{
		Method:  http.MethodDelete,
		Path:    LogoutPath,
		NoRetry: true,
	})
	s.resetLocal()
	if err != nil {
		log.Warn().Err(err).Msg("Backend logout failed, local session cleared")
		return errors.Wrap(err, "logout")
	}
	log.Info().Msg("Logged out")
	return nil
}

func (s *Service) resetLocal() {
	if sched := s.getScheduler(); sched != nil {
		sched.Cancel()
	}
	s.state.Reset()

	s.mu.RLock()
	hooks := append([]func(){}, s.onLogout...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *Service) getScheduler() Scheduler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler
}
