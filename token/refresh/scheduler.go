package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// AfterFunc arms f to run after d and returns its cancellable handle.
type AfterFunc func(d time.Duration, f func()) sessions.Handle

func timeAfterFunc(d time.Duration, f func()) sessions.Handle {
	return time.AfterFunc(d, f)
}

// Scheduler keeps a single deferred refresh armed ahead of the token expiry.
// Every successful refresh re-arms it, forming a chain that logout cancels.
type Scheduler struct {
	state     *sessions.State
	refresh   func(ctx context.Context) error
	onFailure func(ctx context.Context, err error)
	leadTime  time.Duration
	now       func() time.Time
	afterFunc AfterFunc

	mu        sync.Mutex
	immediate int // consecutive refreshes started inside the lead window
}

// maxImmediate bounds back-to-back refreshes when the backend keeps issuing
// tokens that already expire inside the lead window.
const maxImmediate = 1

func newScheduler(state *sessions.State, refresh func(ctx context.Context) error, onFailure func(ctx context.Context, err error)) *Scheduler {
	return &Scheduler{
		state:     state,
		refresh:   refresh,
		onFailure: onFailure,
		leadTime:  DefaultLeadTime,
		now:       func() time.Time { return NowTimeFunc() },
		afterFunc: timeAfterFunc,
	}
}

// LeadTime is how long before the token expiry the refresh is armed.
func (s *Scheduler) LeadTime() time.Duration {
	return s.leadTime
}

// ScheduleNext arms a refresh leadTime before the token expiry. With no
// expiry it does nothing; inside the lead window it refreshes immediately.
func (s *Scheduler) ScheduleNext(ctx context.Context) error {
	return s.schedule(ctx, false)
}

// rearm continues the chain after a successful refresh. A token that lands
// inside the lead window again is refreshed at its expiry, not in a loop.
func (s *Scheduler) rearm(ctx context.Context) error {
	return s.schedule(ctx, true)
}

func (s *Scheduler) schedule(ctx context.Context, chained bool) error {
	s.mu.Lock()
	exp, ok := s.state.Expiry()
	if !ok {
		if chained {
			s.state.SetPendingRefresh(nil, time.Time{})
		}
		s.mu.Unlock()
		return nil
	}

	now := s.now()
	delay := exp.Sub(now) - s.leadTime
	if delay > 0 {
		s.immediate = 0
	} else {
		if !chained {
			s.immediate = 0
		}
		if s.immediate < maxImmediate {
			s.immediate++
			s.state.SetPendingRefresh(nil, time.Time{})
			s.mu.Unlock()
			log.Debug().Time("expiry", exp).Msg("Token inside lead window, refreshing now")
			return s.refreshNow(ctx)
		}
		delay = exp.Sub(now)
		if delay <= 0 {
			s.state.SetPendingRefresh(nil, time.Time{})
			s.mu.Unlock()
			log.Warn().Time("expiry", exp).Msg("Refreshed token already expired, proactive refresh stopped")
			return nil
		}
		log.Warn().Time("expiry", exp).Msg("Refreshed token expires inside the lead window, refreshing at expiry")
	}

	h := s.afterFunc(delay, s.fire)
	s.state.SetPendingRefresh(h, now.Add(delay))
	s.mu.Unlock()
	log.Debug().Dur("delay", delay).Time("expiry", exp).Msg("Scheduled token refresh")
	return nil
}

// Resume re-checks the expiry after the process was suspended and timers may have stalled.
func (s *Scheduler) Resume(ctx context.Context) error {
	exp, ok := s.state.Expiry()
	if !ok {
		return nil
	}
	if exp.Sub(s.now()) <= s.leadTime {
		log.Debug().Time("expiry", exp).Msg("Resumed inside lead window, refreshing now")
		s.Cancel()
		return s.refreshNow(ctx)
	}
	return s.ScheduleNext(ctx)
}

// Cancel drops the pending refresh, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.immediate = 0
	s.state.SetPendingRefresh(nil, time.Time{})
}

func (s *Scheduler) refreshNow(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		s.onFailure(ctx, err)
		return err
	}
	return nil
}

// fire runs on the timer goroutine. A timer whose Stop lost the race with
// logout finds the session empty and does nothing.
func (s *Scheduler) fire() {
	if !s.state.IsLoggedIn() {
		log.Debug().Msg("Scheduled refresh fired after logout, ignoring")
		return
	}
	_ = s.refreshNow(context.Background())
}
