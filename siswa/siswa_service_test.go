package siswa_test

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
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/siswa"
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
	service *siswa.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{backend: fakebackend.New()}
	require.NoError(t, f.backend.AddAccount(users.NewPlain(1, "disdik", users.RoleAdminDisdik), "kantor-dinas"))
	srv := httptest.NewServer(f.backend)
	t.Cleanup(srv.Close)

	state := sessions.NewState()
	urls := config.ServiceURLs{config.ServiceAuth: srv.URL, config.ServiceSiswa: srv.URL}
	factory, err := clients.NewFactory(testConfig{urls: urls}, state, nil)
	require.NoError(t, err)

	authService, err := auth.NewService(factory.MustNew(config.ServiceAuth), state)
	require.NoError(t, err)
	require.NoError(t, authService.Login(context.Background(), "disdik", "kantor-dinas"))

	f.service, err = siswa.NewService(factory.MustNew(config.ServiceSiswa))
	require.NoError(t, err)
	return f
}

func TestNewService_Validation(t *testing.T) {
	_, err := siswa.NewService(nil)
	require.Error(t, err)
}

func TestGetAndUpdate(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	s, err := f.service.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "I Made Arya", s.Nama)
	require.Equal(t, fakebackend.SeedSekolahSD, *s.SekolahAsalID)

	s.Nama = "I Made Arya Wibawa"
	s.NomorTelepon = "081234567890"
	updated, err := f.service.Update(ctx, *s)
	require.NoError(t, err)
	require.Equal(t, "I Made Arya Wibawa", updated.Nama)

	again, err := f.service.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, updated, again)

	t.Run("unknown siswa", func(t *testing.T) {
		_, err := f.service.Get(ctx, 99)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("blank nama", func(t *testing.T) {
		_, err := f.service.Update(ctx, siswa.Siswa{SiswaID: 1})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Equal(t, "Data siswa tidak valid", apperrors.Message(err))
	})
}

func TestListBySekolah(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rows, meta, err := f.service.ListBySekolah(ctx, fakebackend.SeedSekolahSD, 1, 2, nil)
	require.NoError(t, err)
	require.Equal(t, []siswa.Summary{
		{SiswaID: 1, Nama: "I Made Arya", NISN: "0012345601"},
		{SiswaID: 2, Nama: "Ni Putu Ayu", NISN: "0012345602"},
	}, rows)
	require.Equal(t, &clients.Meta{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, meta)

	rows, _, err = f.service.ListBySekolah(ctx, fakebackend.SeedSekolahSD, 0, 0, url.Values{"nama": {"komang"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "I Komang Adi", rows[0].Nama)

	total, err := f.service.Total(ctx, fakebackend.SeedSekolahSD)
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestStatus(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	st, err := f.service.Status(ctx, 1, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.True(t, st.Terdaftar)
	require.True(t, st.WilayahFull)
	require.True(t, st.DokumenValid)
	require.Equal(t, int64(1), st.BanjarID)

	st, err = f.service.Status(ctx, 3, fakebackend.SeedPeriodeJalur)
	require.NoError(t, err)
	require.False(t, st.Terdaftar)
	require.False(t, st.WilayahFull)

	rows, meta, err := f.service.ListWithStatus(ctx, fakebackend.SeedPeriodeJalur, fakebackend.SeedSekolahSD, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 3, meta.Total)
	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].PendaftaranID)
	require.Equal(t, int64(1), *rows[0].PendaftaranID)
	require.Equal(t, "PENDAFTARAN", rows[0].StatusDaftar)
	require.Nil(t, rows[2].PendaftaranID)
	require.Equal(t, "BELUM_DAFTAR", rows[2].StatusDaftar)
}

func TestLookups(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	agama, err := f.service.Agama(ctx)
	require.NoError(t, err)
	require.Len(t, agama, 5)
	require.Equal(t, siswa.Agama{AgamaID: 1, NamaAgama: "Hindu"}, agama[0])

	pekerjaan, err := f.service.Pekerjaan(ctx)
	require.NoError(t, err)
	require.Len(t, pekerjaan, 3)

	penghasilan, err := f.service.Penghasilan(ctx)
	require.NoError(t, err)
	require.Len(t, penghasilan, 3)
}

func TestDelete(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	id, err := f.service.Delete(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	_, err = f.service.Get(ctx, 3)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.service.Delete(ctx, 3)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	total, err := f.service.Total(ctx, fakebackend.SeedSekolahSD)
	require.NoError(t, err)
	require.Equal(t, 2, total)
}
