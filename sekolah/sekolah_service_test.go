package sekolah_test

import (
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-zonasi-client/auth"
	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/internal/fakebackend"
	"github.com/jrsteele09/go-zonasi-client/sekolah"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	urls config.ServiceURLs
}

func (c testConfig) GetServiceURLs() config.ServiceURLs { return c.urls }
func (testConfig) GetRequestTimeout() time.Duration     { return 5 * time.Second }
func (testConfig) GetRequestsPerSecond() float64        { return 0 }
func (testConfig) GetRequestBurst() int                 { return 10 }

type testFixture struct {
	backend *fakebackend.Backend
	service *sekolah.Service
}

func setupTestFixture(t *testing.T, opts ...sekolah.ServiceOption) *testFixture {
	t.Helper()

	f := &testFixture{backend: fakebackend.New()}
	require.NoError(t, f.backend.AddAccount(users.NewPlain(1, "disdik", users.RoleAdminDisdik), "kantor-dinas"))
	srv := httptest.NewServer(f.backend)
	t.Cleanup(srv.Close)

	state := sessions.NewState()
	urls := config.ServiceURLs{config.ServiceAuth: srv.URL, config.ServiceSekolah: srv.URL}
	factory, err := clients.NewFactory(testConfig{urls: urls}, state, nil)
	require.NoError(t, err)

	authService, err := auth.NewService(factory.MustNew(config.ServiceAuth), state)
	require.NoError(t, err)
	require.NoError(t, authService.Login(context.Background(), "disdik", "kantor-dinas"))

	f.service, err = sekolah.NewService(factory.MustNew(config.ServiceSekolah), opts...)
	require.NoError(t, err)
	return f
}

func TestNewService_Validation(t *testing.T) {
	_, err := sekolah.NewService(nil)
	require.Error(t, err)
}

func TestGetUpdateDelete(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	s, err := f.service.Get(ctx, fakebackend.SeedSekolahSMP)
	require.NoError(t, err)
	require.Equal(t, "SMP Negeri 1 Tabanan", s.SekolahNama)
	require.Equal(t, "50100010", *s.NPSN)
	require.Equal(t, 2, s.TotalDayaTampung)

	s.JumlahKelas = 3
	id, err := f.service.Update(ctx, *s)
	require.NoError(t, err)
	require.Equal(t, fakebackend.SeedSekolahSMP, id)

	s, err = f.service.Get(ctx, fakebackend.SeedSekolahSMP)
	require.NoError(t, err)
	require.Equal(t, 3, s.JumlahKelas)

	id, err = f.service.Delete(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
	_, err = f.service.Get(ctx, 2)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Equal(t, "Sekolah tidak ditemukan", apperrors.Message(err))
}

func TestList(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sd, meta, err := f.service.List(ctx, sekolah.JenisSD, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, sd, 3)
	require.Equal(t, []int64{1, 2, fakebackend.SeedSekolahSD}, []int64{sd[0].SekolahID, sd[1].SekolahID, sd[2].SekolahID})
	require.Equal(t, &clients.Meta{Page: 1, Limit: 10, Total: 3, TotalPages: 1}, meta)

	smp, _, err := f.service.List(ctx, sekolah.JenisSMP, 2, 1, url.Values{"search": {"tabanan"}})
	require.NoError(t, err)
	require.Len(t, smp, 1)
	require.Equal(t, "SMP Negeri 2 Tabanan", smp[0].SekolahNama)
}

func TestAll_CachedPerSession(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	list, err := f.service.All(ctx, sekolah.JenisSMP)
	require.NoError(t, err)
	require.Len(t, list, 2)
	calls := f.backend.DomainCalls()

	again, err := f.service.All(ctx, sekolah.JenisSMP)
	require.NoError(t, err)
	require.Equal(t, list, again)
	require.Equal(t, calls, f.backend.DomainCalls())

	_, ok := f.service.ListCache().Get(sekolah.JenisSD)
	require.False(t, ok)

	f.service.ListCache().Clear()
	_, err = f.service.All(ctx, sekolah.JenisSMP)
	require.NoError(t, err)
	require.Equal(t, calls+1, f.backend.DomainCalls())
}

func TestAll_ServedFromInjectedCache(t *testing.T) {
	cache := sekolah.NewMemoryListCache()
	cache.Set(sekolah.JenisSD, []sekolah.Summary{{SekolahID: 77, SekolahNama: "SD Uji"}})
	f := setupTestFixture(t, sekolah.WithListCache(cache))

	list, err := f.service.All(context.Background(), sekolah.JenisSD)
	require.NoError(t, err)
	require.Equal(t, []sekolah.Summary{{SekolahID: 77, SekolahNama: "SD Uji"}}, list)
	require.Zero(t, f.backend.DomainCalls())
}

func TestKuota(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rows, _, err := f.service.KuotaByPeriode(ctx, fakebackend.SeedPeriode, 0, 0, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, fakebackend.SeedSekolahSMP, rows[0].SekolahID)
	require.Len(t, rows[0].KuotaSekolah, 2)

	updated, err := f.service.UpdateKuota(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, &sekolah.UpdatedKuota{SekolahID: fakebackend.SeedSekolahSMP, KuotaSekolahID: 1, Kuota: 5}, updated)

	err = f.service.ReplaceKuota(ctx, fakebackend.SeedSekolahSMP, sekolah.UpdateKuotaRequest{
		PeriodeID:    fakebackend.SeedPeriode,
		KuotaSekolah: []sekolah.KuotaUpdate{{KuotaSekolahID: 2, Kuota: 4}},
	})
	require.NoError(t, err)

	rows, _, err = f.service.KuotaByPeriode(ctx, fakebackend.SeedPeriode, 0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, 5, rows[0].KuotaSekolah[0].Kuota)
	require.Equal(t, 4, rows[0].KuotaSekolah[1].Kuota)

	t.Run("negative kuota", func(t *testing.T) {
		_, err := f.service.UpdateKuota(ctx, 1, -1)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown kuota line", func(t *testing.T) {
		_, err := f.service.UpdateKuota(ctx, 99, 1)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("kuota line of another school", func(t *testing.T) {
		err := f.service.ReplaceKuota(ctx, 11, sekolah.UpdateKuotaRequest{
			PeriodeID:    fakebackend.SeedPeriode,
			KuotaSekolah: []sekolah.KuotaUpdate{{KuotaSekolahID: 2, Kuota: 1}},
		})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestZonasi(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	z, err := f.service.CreateZonasi(ctx, sekolah.ZonasiRequest{SekolahID: fakebackend.SeedSekolahSMP, BanjarID: 3})
	require.NoError(t, err)
	require.Equal(t, int64(2), z.ZonasiID)
	require.Equal(t, "Banjar Pande", z.BanjarNama)
	require.Equal(t, "Delod Peken", z.DesaNama)

	list, meta, err := f.service.ListZonasi(ctx, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 2, meta.Total)

	z, err = f.service.UpdateZonasi(ctx, 2, sekolah.ZonasiRequest{SekolahID: 11, BanjarID: 2})
	require.NoError(t, err)
	require.Equal(t, "SMP Negeri 2 Tabanan", z.SekolahNama)
	require.Equal(t, "Banjar Sakenan", z.BanjarNama)

	list, _, err = f.service.ListZonasi(ctx, 0, 0, url.Values{"sekolah_id": {"11"}})
	require.NoError(t, err)
	require.Len(t, list, 1)

	t.Run("unknown banjar", func(t *testing.T) {
		_, err := f.service.CreateZonasi(ctx, sekolah.ZonasiRequest{SekolahID: fakebackend.SeedSekolahSMP, BanjarID: 99})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	id, err := f.service.DeleteZonasi(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
	_, err = f.service.DeleteZonasi(ctx, 2)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
