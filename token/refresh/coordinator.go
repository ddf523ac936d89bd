// Package refresh keeps the access token alive: the Coordinator guarantees at
// most one outstanding refresh call and releases every caller queued behind it,
// and the Scheduler renews the token shortly before it expires.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultLeadTime is how long before expiry the scheduler refreshes.
	DefaultLeadTime = 60 * time.Second
	// DefaultRefreshTimeout bounds one refresh call when no timeout is configured.
	DefaultRefreshTimeout = 15 * time.Second
)

// Refresher calls the backend refresh endpoint and returns the new raw access token.
type Refresher interface {
	RefreshToken(ctx context.Context) (string, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (string, error)

func (f RefresherFunc) RefreshToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// LogoutFunc ends the session after a refresh failure.
type LogoutFunc func(ctx context.Context) error

// Coordinator serializes refresh waves against the shared session state.
type Coordinator struct {
	state     *sessions.State
	refresher Refresher
	scheduler *Scheduler
	logout    LogoutFunc
	timeout   time.Duration

	mu    sync.Mutex // orders the refreshing flag with joins to the current wave
	queue *Queue
	waves atomic.Uint64
}

// Option defines a function type to modify the Coordinator instance.
type Option func(*Coordinator)

// WithLogout sets the function invoked when a refresh wave fails.
func WithLogout(fn LogoutFunc) Option {
	return func(c *Coordinator) {
		c.logout = fn
	}
}

// WithRefreshTimeout bounds a single refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLeadTime sets how long before expiry the scheduler refreshes.
func WithLeadTime(d time.Duration) Option {
	return func(c *Coordinator) {
		c.scheduler.leadTime = d
	}
}

// WithNowTime sets the clock used by the scheduler (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Coordinator) {
		c.scheduler.now = nowFunc
	}
}

// WithAfterFunc replaces time.AfterFunc in the scheduler (primarily for testing)
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Coordinator) {
		c.scheduler.afterFunc = fn
	}
}

// NewCoordinator creates a coordinator and its scheduler over state.
func NewCoordinator(state *sessions.State, refresher Refresher, options ...Option) (*Coordinator, error) {
	if state == nil {
		return nil, errors.New("[NewCoordinator] state is required")
	}
	if refresher == nil {
		return nil, errors.New("[NewCoordinator] refresher is required")
	}

	c := &Coordinator{
		state:     state,
		refresher: refresher,
		timeout:   DefaultRefreshTimeout,
		queue:     NewQueue(),
	}
	c.scheduler = newScheduler(state, c.Refresh, c.forceLogout)

	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Scheduler returns the proactive refresh scheduler driving this coordinator.
func (c *Coordinator) Scheduler() *Scheduler {
	return c.scheduler
}

// Waiting returns how many callers are queued behind the outstanding wave.
func (c *Coordinator) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// Refresh starts a refresh wave. When one is already outstanding it returns
// nil immediately without a second network call; use Await to wait for that
// wave's result. A failure is returned as *errors.RefreshError and the caller
// is responsible for logging out.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.BeginRefresh() {
		c.mu.Unlock()
		log.Debug().Msg("Refresh already in progress")
		return nil
	}
	generation := c.state.Generation()
	c.mu.Unlock()

	_, err := c.run(ctx, generation)
	return err
}

// Await returns a renewed access token. It joins the outstanding wave as a
// subscriber, or leads a new wave when none is outstanding. The leader of a
// failed wave triggers logout; every caller of that wave gets the failure.
func (c *Coordinator) Await(ctx context.Context) (string, error) {
	done := make(chan Result, 1)
	c.mu.Lock()
	if c.joinLocked(func(r Result) { done <- r }) {
		c.mu.Unlock()

		select {
		case r := <-done:
			return r.Token, r.Err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	started := c.state.BeginRefresh()
	generation := c.state.Generation()
	c.mu.Unlock()
	if !started {
		return "", &apperrors.RefreshError{Err: errors.New("refresh flag held outside the coordinator")}
	}

	tok, err := c.run(ctx, generation)
	if err != nil {
		c.forceLogout(ctx, err)
	}
	return tok, err
}

// Subscribe queues fn behind the outstanding wave and reports true. With no
// wave outstanding it reports false and fn is never called.
func (c *Coordinator) Subscribe(fn Subscriber) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinLocked(fn)
}

func (c *Coordinator) joinLocked(fn Subscriber) bool {
	if !c.state.Refreshing() {
		return false
	}
	c.queue.Enqueue(fn)
	return true
}

// run leads one wave: the refresh call, the release of its subscribers and,
// once the refreshing flag is down, the next link of the schedule chain.
func (c *Coordinator) run(ctx context.Context, generation uint64) (string, error) {
	wave := c.waves.Add(1)
	logger := log.With().Uint64("wave", wave).Logger()

	tok, err := c.call(ctx, generation, logger)
	c.finish(Result{Token: tok, Err: err})
	if err != nil {
		return "", err
	}

	if err := c.scheduler.rearm(ctx); err != nil {
		logger.Err(err).Msg("Failed to re-arm refresh schedule")
	}
	return tok, nil
}

// call performs the refresh request. It is detached from ctx cancellation:
// once started it always settles, panics included.
func (c *Coordinator) call(ctx context.Context, generation uint64, logger zerolog.Logger) (tok string, err error) {
	defer func() {
		if r := recover(); r != nil {
			tok, err = "", &apperrors.RefreshError{Err: fmt.Errorf("panic during refresh: %v", r)}
		}
	}()

	logger.Debug().Msg("Refreshing access token")
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	raw, err := c.refresher.RefreshToken(rctx)
	if err != nil {
		logger.Err(err).Msg("Token refresh failed")
		return "", &apperrors.RefreshError{Err: err}
	}
	if raw == "" {
		logger.Error().Msg("Token refresh returned an empty token")
		return "", &apperrors.RefreshError{Err: apperrors.ErrInvalidToken}
	}

	bearer := token.NewBearer(raw)
	if bearer.Expiry.IsZero() {
		logger.Warn().Msg("Refreshed token has no readable expiry, proactive refresh disabled")
	}
	if !c.state.SetTokenIf(generation, bearer) {
		logger.Warn().Msg("Session ended during refresh, discarding token")
		return "", &apperrors.RefreshError{Err: apperrors.ErrNotLoggedIn}
	}
	logger.Debug().Time("expiry", bearer.Expiry).Msg("Access token refreshed")
	return raw, nil
}

// finish clears the refreshing flag and releases the wave's subscribers.
// Joins are closed atomically with the flag, so a subscriber is never left behind.
func (c *Coordinator) finish(r Result) {
	c.mu.Lock()
	waiting := c.queue
	c.queue = NewQueue()
	c.state.EndRefresh()
	c.mu.Unlock()

	waiting.DrainAndNotify(r)
}

func (c *Coordinator) forceLogout(ctx context.Context, cause error) {
	log.Warn().AnErr("cause", cause).Msg("Refresh failed, logging out")
	if c.logout == nil {
		return
	}
	if err := c.logout(context.WithoutCancel(ctx)); err != nil {
		log.Err(err).Msg("Logout after refresh failure")
	}
}
