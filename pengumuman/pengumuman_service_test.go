package pengumuman_test

import (
	"context"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-zonasi-client/auth"
	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/internal/fakebackend"
	"github.com/jrsteele09/go-zonasi-client/pengumuman"
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
	service *pengumuman.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{backend: fakebackend.New()}
	require.NoError(t, f.backend.AddAccount(users.NewPlain(1, "disdik", users.RoleAdminDisdik), "kantor-dinas"))
	srv := httptest.NewServer(f.backend)
	t.Cleanup(srv.Close)

	state := sessions.NewState()
	urls := config.ServiceURLs{config.ServiceAuth: srv.URL, config.ServicePengumuman: srv.URL}
	factory, err := clients.NewFactory(testConfig{urls: urls}, state, nil)
	require.NoError(t, err)

	authService, err := auth.NewService(factory.MustNew(config.ServiceAuth), state)
	require.NoError(t, err)
	require.NoError(t, authService.Login(context.Background(), "disdik", "kantor-dinas"))

	f.service, err = pengumuman.NewService(factory.MustNew(config.ServicePengumuman))
	require.NoError(t, err)
	return f
}

func TestNewService_Validation(t *testing.T) {
	_, err := pengumuman.NewService(nil)
	require.Error(t, err)
}

func TestSetKelulusan(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	count, err := f.service.SetKelulusan(ctx, fakebackend.SeedSekolahSMP, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	rows, meta, err := f.service.Kelulusan(ctx, fakebackend.SeedSekolahSMP, fakebackend.SeedPeriodeJalur, 1, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 3, meta.Total)
	statuses := map[string]pengumuman.StatusKelulusan{}
	for _, r := range rows {
		statuses[r.Nama] = r.StatusKelulusan
	}
	require.Equal(t, map[string]pengumuman.StatusKelulusan{
		"I Made Arya":   pengumuman.StatusLulus,
		"Ni Putu Ayu":   pengumuman.StatusLulus,
		"Ni Wayan Sari": pengumuman.StatusTidakLulus,
	}, statuses)
	require.Equal(t, "SD Negeri 3 Tabanan", rows[0].SekolahAsalNama)

	t.Run("unknown school", func(t *testing.T) {
		_, err := f.service.SetKelulusan(ctx, 99, fakebackend.SeedPeriodeJalur)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestKuotaPendaftar(t *testing.T) {
	f := setupTestFixture(t)

	rows, meta, err := f.service.KuotaPendaftar(context.Background(), fakebackend.SeedPeriode, fakebackend.SeedPeriodeJalur, 1, 10, url.Values{"search": {"smp"}})
	require.NoError(t, err)
	require.Equal(t, &clients.Meta{Page: 1, Limit: 10, Total: 2, TotalPages: 1}, meta)
	require.Equal(t, pengumuman.KuotaPendaftar{SekolahID: fakebackend.SeedSekolahSMP, SekolahNama: "SMP Negeri 1 Tabanan", NPSN: "50100010", TotalPendaftar: 3, Kuota: 3}, rows[0])
	require.Zero(t, rows[1].TotalPendaftar)
}

func TestDashboards(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	sd, err := f.service.DashboardSD(ctx, fakebackend.SeedSekolahSD, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, &pengumuman.DashboardSD{
		TotalSiswa:               3,
		TotalTerdaftar:           2,
		TotalTerverifikasi:       2,
		TotalBiodataBelumLengkap: 1,
		TotalDokumenBelumLengkap: 1,
	}, sd)

	smp, err := f.service.DashboardSMP(ctx, fakebackend.SeedSekolahSMP, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, &pengumuman.DashboardSMP{TotalSiswaTerdaftar: 3, TotalTerverifikasi: 2, TotalBelumTerverifikasi: 1}, smp)

	_, err = f.service.SetKelulusan(ctx, fakebackend.SeedSekolahSMP, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)

	dinas, err := f.service.DashboardDinas(ctx, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, &pengumuman.DashboardDinas{
		TotalSiswa:              4,
		TotalSekolahSD:          3,
		TotalSekolahSMP:         2,
		TotalTerdaftar:          3,
		TotalTerverifikasi:      2,
		TotalBelumTerverifikasi: 1,
		TotalLulus:              2,
		TotalTidakLulus:         1,
	}, dinas)

	sd, err = f.service.DashboardSD(ctx, fakebackend.SeedSekolahSD, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, 2, sd.TotalLulus)
}

func TestPendaftar(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.backend.AddPendaftaran(3, 11, fakebackend.SeedPeriodeJalur, 0.5)

	perSekolah, err := f.service.PendaftarPerSekolah(ctx, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.Equal(t, []pengumuman.PendaftarPerSekolah{
		{SekolahID: fakebackend.SeedSekolahSMP, SekolahNama: "SMP Negeri 1 Tabanan", TotalPendaftar: 3},
		{SekolahID: 11, SekolahNama: "SMP Negeri 2 Tabanan", TotalPendaftar: 1},
	}, perSekolah)

	ranked, meta, err := f.service.PendaftaranZonasi(ctx, fakebackend.SeedPeriode, 1, 3, nil)
	require.NoError(t, err)
	require.Equal(t, 4, meta.Total)
	require.Len(t, ranked, 3)
	require.Equal(t, "I Komang Adi", ranked[0].SiswaNama)
	require.Equal(t, "I Made Arya", ranked[1].SiswaNama)
	require.Equal(t, "TERVERIFIKASI", ranked[1].Status)
	require.Equal(t, "BELUM_TERVERIFIKASI", ranked[0].Status)
}

func TestLaporanPendaftaran(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	_, err := f.service.SetKelulusan(ctx, fakebackend.SeedSekolahSMP, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)

	report, err := f.service.LaporanPendaftaran(ctx, pengumuman.LaporanFilter{PeriodeJalurID: fakebackend.SeedPeriodeJalur, StatusKelulusan: pengumuman.StatusLulus})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[1], "I Made Arya")
	require.Contains(t, lines[2], "Ni Putu Ayu")

	report, err = f.service.LaporanPendaftaran(ctx, pengumuman.LaporanFilter{SekolahID: 99})
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(string(report)), "\n"), 1)
}
