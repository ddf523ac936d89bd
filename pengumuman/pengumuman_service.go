// Package pengumuman wraps the results and reporting endpoints of the pengumuman service.
package pengumuman

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-zonasi-client/clients"
)

const (
	SetKelulusanPath        = "/pengumuman/set-kelulusan"
	KuotaPendaftarPath      = "/pengumuman/kuota-pendaftar"
	LaporanPendaftaranPath  = "/pengumuman/laporan-pendaftaran"
	KelulusanPath           = "/pengumuman/kelulusan"
	DashboardSDPath         = "/pengumuman/dashboard-sd"
	DashboardSMPPath        = "/pengumuman/dashboard-smp"
	DashboardDinasPath      = "/pengumuman/dashboard-dinas"
	PendaftarPerSekolahPath = "/pengumuman/pendaftar-per-sekolah"
	ZonasiPath              = "/pengumuman/zonasi"

	// SpreadsheetContentType is the media type of the registration report.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service struct {
	client *clients.Client
}

// NewService creates the pengumuman service over the pengumuman service client.
func NewService(client *clients.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[pengumuman.NewService] pengumuman client is required")
	}
	return &Service{client: client}, nil
}

// SetKelulusan runs the selection of a school for a periode jalur and
// returns how many applications were decided.
func (s *Service) SetKelulusan(ctx context.Context, sekolahID, periodeJalurID int64) (int, error) {
	req := SetKelulusanRequest{SekolahID: sekolahID, PeriodeJalurID: periodeJalurID}
	env, err := clients.Post[SetKelulusanResult](ctx, s.client, SetKelulusanPath, req)
	if err != nil {
		return 0, fmt.Errorf("set kelulusan of sekolah %d: %w", sekolahID, err)
	}
	return env.Data.Count, nil
}

func (s *Service) KuotaPendaftar(ctx context.Context, periodeID, periodeJalurID int64, page, limit int, filters url.Values) ([]KuotaPendaftar, *clients.Meta, error) {
	q := clients.PageQuery(page, limit, filters)
	q.Set("periode_id", strconv.FormatInt(periodeID, 10))
	q.Set("periode_jalur_id", strconv.FormatInt(periodeJalurID, 10))
	env, err := clients.Get[[]KuotaPendaftar](ctx, s.client, KuotaPendaftarPath, q)
	if err != nil {
		return nil, nil, fmt.Errorf("kuota pendaftar of periode %d: %w", periodeID, err)
	}
	return env.Data, env.Meta, nil
}

// Kelulusan lists the selection results of a school.
func (s *Service) Kelulusan(ctx context.Context, sekolahID, periodeJalurID int64, page, limit int, filters url.Values) ([]Kelulusan, *clients.Meta, error) {
	q := clients.PageQuery(page, limit, filters)
	q.Set("periode_jalur_id", strconv.FormatInt(periodeJalurID, 10))
	env, err := clients.Get[[]Kelulusan](ctx, s.client, clients.IDPath(KelulusanPath, sekolahID), q)
	if err != nil {
		return nil, nil, fmt.Errorf("kelulusan of sekolah %d: %w", sekolahID, err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) DashboardSD(ctx context.Context, sekolahID, periodeJalurID int64) (*DashboardSD, error) {
	q := url.Values{"periode_jalur_id": {strconv.FormatInt(periodeJalurID, 10)}}
	env, err := clients.Get[DashboardSD](ctx, s.client, clients.IDPath(DashboardSDPath, sekolahID), q)
	if err != nil {
		return nil, fmt.Errorf("dashboard sd %d: %w", sekolahID, err)
	}
	return &env.Data, nil
}

func (s *Service) DashboardSMP(ctx context.Context, sekolahID, periodeJalurID int64) (*DashboardSMP, error) {
	q := url.Values{"periode_jalur_id": {strconv.FormatInt(periodeJalurID, 10)}}
	env, err := clients.Get[DashboardSMP](ctx, s.client, clients.IDPath(DashboardSMPPath, sekolahID), q)
	if err != nil {
		return nil, fmt.Errorf("dashboard smp %d: %w", sekolahID, err)
	}
	return &env.Data, nil
}

func (s *Service) DashboardDinas(ctx context.Context, periodeJalurID int64) (*DashboardDinas, error) {
	env, err := clients.Get[DashboardDinas](ctx, s.client, clients.IDPath(DashboardDinasPath, periodeJalurID), nil)
	if err != nil {
		return nil, fmt.Errorf("dashboard dinas of periode jalur %d: %w", periodeJalurID, err)
	}
	return &env.Data, nil
}

func (s *Service) PendaftarPerSekolah(ctx context.Context, periodeJalurID int64) ([]PendaftarPerSekolah, error) {
	env, err := clients.Get[[]PendaftarPerSekolah](ctx, s.client, clients.IDPath(PendaftarPerSekolahPath, periodeJalurID), nil)
	if err != nil {
		return nil, fmt.Errorf("pendaftar per sekolah of periode jalur %d: %w", periodeJalurID, err)
	}
	return env.Data, nil
}

func (s *Service) PendaftaranZonasi(ctx context.Context, periodeID int64, page, limit int, filters url.Values) ([]PendaftaranZonasi, *clients.Meta, error) {
	env, err := clients.Get[[]PendaftaranZonasi](ctx, s.client, clients.IDPath(ZonasiPath, periodeID), clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("pendaftaran zonasi of periode %d: %w", periodeID, err)
	}
	return env.Data, env.Meta, nil
}

// LaporanPendaftaran downloads the registration report spreadsheet.
func (s *Service) LaporanPendaftaran(ctx context.Context, filter LaporanFilter) ([]byte, error) {
	q := url.Values{}
	setID(q, "periode_id", filter.PeriodeID)
	setID(q, "periode_jalur_id", filter.PeriodeJalurID)
	setID(q, "sekolah_id", filter.SekolahID)
	if filter.StatusKelulusan != "" {
		q.Set("status_kelulusan", string(filter.StatusKelulusan))
	}
	resp, err := s.client.Do(ctx, &clients.Request{
		Method: http.MethodGet,
		Path:   LaporanPendaftaranPath,
		Query:  q,
		Header: http.Header{"Accept": {SpreadsheetContentType}},
	})
	if err != nil {
		return nil, fmt.Errorf("laporan pendaftaran: %w", err)
	}
	return resp.Body, nil
}

func setID(q url.Values, key string, id int64) {
	if id > 0 {
		q.Set(key, strconv.FormatInt(id, 10))
	}
}
