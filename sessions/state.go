// Package sessions holds the single process-wide session state: the access
// token, its decoded expiry, the authenticated user, the refresh-in-progress
// flag and the handle of the pending proactive refresh.
//
// Only the refresh coordinator and the login/logout operations mutate it.
package sessions

import (
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/internal/utils"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Handle identifies a scheduled action that can be cancelled.
type Handle interface {
	Stop() bool
}

// Session is a point-in-time copy of the state. Zero times mean absent.
type Session struct {
	AccessToken string
	Expiry      time.Time
	User        *users.User
	Refreshing  bool
	RefreshAt   time.Time
	LoginError  string
}

// State is safe for concurrent use.
type State struct {
	mu         sync.RWMutex
	token      *oauth2.Token
	user       *users.User
	refreshing bool
	pending    Handle
	refreshAt  time.Time
	loginError string
	generation uint64 // bumped by Reset
	repo       Repo
}

// Option configures a State.
type Option func(*State)

// WithRepo persists every mutation to repo.
func WithRepo(repo Repo) Option {
	return func(s *State) {
		s.repo = repo
	}
}

// NewState creates an empty session.
func NewState(opts ...Option) *State {
	s := &State{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// AccessToken returns a copy of the current bearer token.
func (s *State) AccessToken() (*oauth2.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil, false
	}
	t := *s.token
	return &t, true
}

// Expiry returns the decoded expiry of the current token. It drives scheduling only.
func (s *State) Expiry() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil || s.token.Expiry.IsZero() {
		return time.Time{}, false
	}
	return s.token.Expiry, true
}

func (s *State) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *State) LoginError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginError
}

func (s *State) Refreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshing
}

func (s *State) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Session{
		User:       s.user,
		Refreshing: s.refreshing,
		RefreshAt:  s.refreshAt,
		LoginError: s.loginError,
	}
	if s.token != nil {
		snap.AccessToken = s.token.AccessToken
		snap.Expiry = s.token.Expiry
	}
	return snap
}

// SetLogin stores the result of a successful login.
func (s *State) SetLogin(user *users.User, tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = copyToken(tok)
	s.loginError = ""
	s.persistLocked()
}

// SetToken replaces the access token and its expiry together. A nil or empty token clears both.
func (s *State) SetToken(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = copyToken(tok)
	s.persistLocked()
}

// Generation identifies the current session lifetime. Reset starts a new one.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetTokenIf is SetToken guarded by generation. It reports false, changing
// nothing, when the session was reset since generation was read.
func (s *State) SetTokenIf(generation uint64, tok *oauth2.Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return false
	}
	s.token = copyToken(tok)
	s.persistLocked()
	return true
}

func (s *State) SetLoginError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginError = msg
}

// BeginRefresh sets the refreshing flag and reports whether the caller won it.
// A false return means a refresh is already outstanding.
func (s *State) BeginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing {
		return false
	}
	s.refreshing = true
	s.persistLocked()
	return true
}

func (s *State) EndRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = false
	s.persistLocked()
}

// SetPendingRefresh records the scheduled refresh, cancelling the one it supersedes.
// A nil handle cancels without replacement.
func (s *State) SetPendingRefresh(h Handle, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil && s.pending != h {
		s.pending.Stop()
	}
	s.pending = h
	if h == nil {
		at = time.Time{}
	}
	s.refreshAt = at
	s.persistLocked()
}

// Reset returns the session to its empty value and cancels any pending refresh.
// An outstanding refresh call keeps its refreshing flag until it settles, so a
// second call can never overlap it; its result is discarded by SetTokenIf.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
	}
	s.generation++
	s.token = nil
	s.user = nil
	s.pending = nil
	s.refreshAt = time.Time{}
	s.loginError = ""
	if s.repo != nil {
		if err := s.repo.Clear(); err != nil {
			log.Err(err).Msg("Failed to clear persisted session")
		}
	}
}

// Restore loads the persisted session, if any. A persisted refreshing flag is
// dropped: no refresh call outlives the process that started it.
func (s *State) Restore() error {
	if s.repo == nil {
		return nil
	}
	p, err := s.repo.Load()
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrapf(err, "failed to restore session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.AccessToken != "" {
		s.token = &oauth2.Token{AccessToken: p.AccessToken, TokenType: "Bearer"}
		if p.Exp != nil {
			s.token.Expiry = time.UnixMilli(*p.Exp)
		}
	}
	s.user = p.User
	if p.RefreshAt != nil {
		s.refreshAt = time.UnixMilli(*p.RefreshAt)
	}
	if p.Refreshing {
		log.Debug().Msg("Dropping stale refreshing flag from persisted session")
	}
	s.refreshing = false
	return nil
}

func (s *State) persistLocked() {
	if s.repo == nil {
		return
	}
	if s.token == nil && s.user == nil && !s.refreshing && s.refreshAt.IsZero() {
		if err := s.repo.Clear(); err != nil {
			log.Err(err).Msg("Failed to clear persisted session")
		}
		return
	}
	p := &Persisted{User: s.user, Refreshing: s.refreshing}
	if s.token != nil {
		p.AccessToken = s.token.AccessToken
		if !s.token.Expiry.IsZero() {
			p.Exp = utils.Ptr(s.token.Expiry.UnixMilli())
		}
	}
	if !s.refreshAt.IsZero() {
		p.RefreshAt = utils.Ptr(s.refreshAt.UnixMilli())
	}
	if err := s.repo.Save(p); err != nil {
		log.Err(err).Msg("Failed to persist session")
	}
}

func copyToken(tok *oauth2.Token) *oauth2.Token {
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	t := *tok
	return &t
}
