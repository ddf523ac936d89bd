package sessions_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-zonasi-client/internal/utils"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/sessions/repofakes"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeHandle struct {
	stopped atomic.Int32
}

func (h *fakeHandle) Stop() bool {
	h.stopped.Add(1)
	return true
}

func testToken(exp time.Time) *oauth2.Token {
	return &oauth2.Token{AccessToken: "tok-1", TokenType: "Bearer", Expiry: exp}
}

func TestState_Empty(t *testing.T) {
	s := sessions.NewState()

	require.False(t, s.IsLoggedIn())
	_, ok := s.AccessToken()
	require.False(t, ok)
	_, ok = s.Expiry()
	require.False(t, ok)
	require.Nil(t, s.User())
	require.Equal(t, sessions.Session{}, s.Snapshot())
}

func TestState_LoginAndToken(t *testing.T) {
	s := sessions.NewState()
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Millisecond)
	user := users.NewPlain(1, "disdik", users.RoleAdminDisdik)

	s.SetLoginError("old")
	s.SetLogin(user, testToken(exp))

	require.True(t, s.IsLoggedIn())
	require.Empty(t, s.LoginError())
	got, ok := s.Expiry()
	require.True(t, ok)
	require.Equal(t, exp, got)
	require.Equal(t, user, s.User())

	tok, _ := s.AccessToken()
	tok.AccessToken = "mutated"
	again, _ := s.AccessToken()
	require.Equal(t, "tok-1", again.AccessToken)

	t.Run("empty token clears expiry too", func(t *testing.T) {
		s.SetToken(&oauth2.Token{Expiry: exp})
		require.False(t, s.IsLoggedIn())
		_, ok := s.Expiry()
		require.False(t, ok)
	})
}

func TestState_BeginRefreshIsExclusive(t *testing.T) {
	s := sessions.NewState()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginRefresh() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
	require.True(t, s.Refreshing())
	s.EndRefresh()
	require.False(t, s.Refreshing())
	require.True(t, s.BeginRefresh())
}

func TestState_PendingRefresh(t *testing.T) {
	s := sessions.NewState()
	first, second := &fakeHandle{}, &fakeHandle{}
	at := time.Now().Add(time.Minute)

	s.SetPendingRefresh(first, at)
	require.Equal(t, at, s.Snapshot().RefreshAt)

	s.SetPendingRefresh(second, at.Add(time.Minute))
	require.Equal(t, int32(1), first.stopped.Load())
	require.Equal(t, int32(0), second.stopped.Load())

	s.SetPendingRefresh(nil, at)
	require.Equal(t, int32(1), second.stopped.Load())
	require.True(t, s.Snapshot().RefreshAt.IsZero())
}

func TestState_Reset(t *testing.T) {
	repo := repofakes.NewFakeSessionRepo()
	s := sessions.NewState(sessions.WithRepo(repo))
	h := &fakeHandle{}

	s.SetLogin(users.NewPlain(1, "a", users.RoleAdminDisdik), testToken(time.Now().Add(time.Hour)))
	s.SetPendingRefresh(h, time.Now().Add(time.Minute))
	s.BeginRefresh()

	gen := s.Generation()
	s.Reset()
	require.Equal(t, sessions.Session{Refreshing: true}, s.Snapshot())
	require.Equal(t, int32(1), h.stopped.Load())
	require.NotEqual(t, gen, s.Generation())
	require.False(t, s.SetTokenIf(gen, testToken(time.Now().Add(time.Hour))))
	require.False(t, s.IsLoggedIn())

	s.EndRefresh()
	require.Equal(t, sessions.Session{}, s.Snapshot())
	_, err := repo.Load()
	require.Error(t, err)

	t.Run("idempotent", func(t *testing.T) {
		s.Reset()
		require.Equal(t, sessions.Session{}, s.Snapshot())
	})
}

func TestState_PersistAndRestore(t *testing.T) {
	repo := repofakes.NewFakeSessionRepo()
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Millisecond)
	user := users.NewStudent(7, "budi", users.RoleSiswa, users.Student{SiswaID: 42, Nama: "Budi"})

	s := sessions.NewState(sessions.WithRepo(repo))
	s.SetLogin(user, testToken(exp))
	s.BeginRefresh()

	stored, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, "tok-1", stored.AccessToken)
	require.Equal(t, exp.UnixMilli(), utils.Value(stored.Exp))
	require.True(t, stored.Refreshing)

	restored := sessions.NewState(sessions.WithRepo(repo))
	require.NoError(t, restored.Restore())
	require.True(t, restored.IsLoggedIn())
	require.False(t, restored.Refreshing())
	gotExp, ok := restored.Expiry()
	require.True(t, ok)
	require.Equal(t, exp, gotExp)
	require.Equal(t, user, restored.User())
}

func TestState_RestoreEmpty(t *testing.T) {
	s := sessions.NewState(sessions.WithRepo(repofakes.NewFakeSessionRepo()))
	require.NoError(t, s.Restore())
	require.False(t, s.IsLoggedIn())

	require.NoError(t, sessions.NewState().Restore())
}
