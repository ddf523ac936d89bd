package routes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jrsteele09/go-zonasi-client/routes"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loggedIn bool
	user     *users.User
}

func (s *fakeSession) IsLoggedIn() bool  { return s.loggedIn }
func (s *fakeSession) User() *users.User { return s.user }

type testFixture struct {
	session   *fakeSession
	refreshes int
	logouts   int
	refresh   func(s *fakeSession) error
	guard     *routes.Guard
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{session: &fakeSession{}}
	guard, err := routes.NewGuard(f.session,
		routes.RefresherFunc(func(ctx context.Context) error {
			f.refreshes++
			if f.refresh != nil {
				return f.refresh(f.session)
			}
			return nil
		}),
		func(ctx context.Context) error {
			f.logouts++
			return nil
		})
	require.NoError(t, err)
	f.guard = guard
	return f
}

func mustRoute(t *testing.T, name string) routes.Route {
	t.Helper()
	r, ok := routes.Lookup(name)
	require.True(t, ok, name)
	return r
}

func TestNewGuard_Validation(t *testing.T) {
	_, err := routes.NewGuard(nil, routes.RefresherFunc(func(context.Context) error { return nil }), func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestGuard_RecoversSessionWithRefresh(t *testing.T) {
	f := setupTestFixture(t)
	f.refresh = func(s *fakeSession) error {
		s.loggedIn = true
		s.user = users.NewPlain(1, "disdik", users.RoleAdminDisdik)
		return nil
	}

	d := f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardAdminDisdik))
	require.Equal(t, routes.Decision{Allow: true}, d)
	require.Equal(t, 1, f.refreshes)
	require.Equal(t, 0, f.logouts)
}

func TestGuard_FailedRefreshLogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.refresh = func(*fakeSession) error { return errors.New("cookie expired") }

	d := f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardSiswa))
	require.Equal(t, routes.RouteLogin, d.Redirect)
	require.False(t, d.Allow)
	require.Equal(t, 1, f.logouts)
}

func TestGuard_RefreshWithoutSessionRedirects(t *testing.T) {
	f := setupTestFixture(t)

	d := f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardSiswa))
	require.Equal(t, routes.RouteLogin, d.Redirect)
	require.Equal(t, 0, f.logouts)
}

func TestGuard_PublicRoutesSkipRefresh(t *testing.T) {
	f := setupTestFixture(t)

	for _, name := range []string{routes.RouteLogin, routes.RouteForbidden, routes.RouteChangePassword, routes.RouteNotFound} {
		d := f.guard.Before(context.Background(), mustRoute(t, name))
		require.True(t, d.Allow, name)
	}
	require.Equal(t, 0, f.refreshes)
}

func TestGuard_LoginRedirectsToLanding(t *testing.T) {
	tests := []struct {
		user *users.User
		want string
	}{
		{users.NewStudent(1, "ani", users.RoleSiswa, users.Student{SiswaID: 5}), routes.RouteDashboardSiswa},
		{users.NewSchoolAdmin(2, "sd", users.RoleAdminSD, users.SchoolAdmin{SekolahID: 3}), routes.RouteDashboardAdminSD},
		{users.NewSchoolAdmin(3, "smp", users.RoleAdminSMP, users.SchoolAdmin{SekolahID: 4}), routes.RouteDashboardAdminSMP},
		{users.NewPlain(4, "disdik", users.RoleAdminDisdik), routes.RouteDashboardAdminDisdik},
	}
	for _, tt := range tests {
		t.Run(string(tt.user.Role), func(t *testing.T) {
			f := setupTestFixture(t)
			f.session.loggedIn = true
			f.session.user = tt.user

			d := f.guard.Before(context.Background(), mustRoute(t, routes.RouteLogin))
			require.Equal(t, tt.want, d.Redirect)
		})
	}

	t.Run("no user record stays on login", func(t *testing.T) {
		f := setupTestFixture(t)
		f.session.loggedIn = true
		require.True(t, f.guard.Before(context.Background(), mustRoute(t, routes.RouteLogin)).Allow)
	})
}

func TestGuard_Roles(t *testing.T) {
	f := setupTestFixture(t)
	f.session.loggedIn = true
	f.session.user = users.NewSchoolAdmin(2, "sd", users.RoleAdminSD, users.SchoolAdmin{SekolahID: 3})

	require.True(t, f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardAdminSD)).Allow)
	require.Equal(t, routes.RouteForbidden, f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardAdminSMP)).Redirect)

	_, d := f.guard.BeforePath(context.Background(), "/dokumen-siswa/42")
	require.True(t, d.Allow)

	t.Run("missing role", func(t *testing.T) {
		f.session.user = nil
		require.Equal(t, routes.RouteLogin, f.guard.Before(context.Background(), mustRoute(t, routes.RouteDashboardAdminSD)).Redirect)
	})
}

func TestMatch(t *testing.T) {
	require.Equal(t, routes.RouteLogin, routes.Match("/").Name)
	require.Equal(t, routes.RouteDashboardSiswa, routes.Match("/siswa/dashboard/").Name)
	require.Equal(t, "ManajemenJadwal-AdminDisdik", routes.Match("/admin-disdik/manajemen-jadwal/9").Name)
	require.Equal(t, routes.RouteNotFound, routes.Match("/admin-disdik/manajemen-jadwal").Name)
	require.Equal(t, routes.RouteNotFound, routes.Match("/tidak/ada").Name)
}
