package refresh_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/token"
	"github.com/jrsteele09/go-zonasi-client/token/refresh"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

func signToken(t *testing.T, exp time.Time, n int32) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
		"jti": fmt.Sprintf("token-%d", n),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

type fakeRefresher struct {
	t        *testing.T
	calls    atomic.Int32
	gate     chan struct{}
	exp      time.Time
	err      error
	panicMsg string
}

func (f *fakeRefresher) RefreshToken(ctx context.Context) (string, error) {
	n := f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return "", f.err
	}
	return signToken(f.t, f.exp, n), nil
}

type fakeTimer struct {
	delay   time.Duration
	fire    func()
	stopped atomic.Bool
}

func (t *fakeTimer) Stop() bool {
	return !t.stopped.Swap(true)
}

type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) sessions.Handle {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	timer := &fakeTimer{delay: d, fire: f}
	ft.timers = append(ft.timers, timer)
	return timer
}

func (ft *fakeTimers) count() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return len(ft.timers)
}

func (ft *fakeTimers) last(t *testing.T) *fakeTimer {
	t.Helper()
	ft.mu.Lock()
	defer ft.mu.Unlock()
	require.NotEmpty(t, ft.timers)
	return ft.timers[len(ft.timers)-1]
}

type testFixture struct {
	state       *sessions.State
	refresher   *fakeRefresher
	timers      *fakeTimers
	logouts     atomic.Int32
	coordinator *refresh.Coordinator
}

func setupTestFixture(t *testing.T, refresher *fakeRefresher) *testFixture {
	t.Helper()
	refresher.t = t
	if refresher.exp.IsZero() {
		refresher.exp = testNow.Add(5 * time.Minute)
	}

	f := &testFixture{
		state:     sessions.NewState(),
		refresher: refresher,
		timers:    &fakeTimers{},
	}
	c, err := refresh.NewCoordinator(f.state, refresher,
		refresh.WithNowTime(func() time.Time { return testNow }),
		refresh.WithAfterFunc(f.timers.AfterFunc),
		refresh.WithLogout(func(ctx context.Context) error {
			f.logouts.Add(1)
			f.state.Reset()
			return nil
		}),
	)
	require.NoError(t, err)
	f.coordinator = c
	return f
}

func (f *testFixture) login(t *testing.T, exp time.Time) {
	t.Helper()
	f.state.SetLogin(nil, token.NewBearer(signToken(t, exp, 0)))
}
