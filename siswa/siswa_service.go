// Package siswa wraps the student biodata endpoints of the siswa service.
package siswa

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-zonasi-client/clients"
)

const (
	BasePath        = "/siswa"
	StatusPath      = BasePath + "/status"
	BySekolahPath   = BasePath + "/sekolah"
	TotalPath       = BasePath + "/total"
	AgamaPath       = BasePath + "/agama"
	PekerjaanPath   = BasePath + "/pekerjaan"
	PenghasilanPath = BasePath + "/penghasilan"
)

type Service struct {
	client *clients.Client
}

// NewService creates the siswa service over the siswa service client.
func NewService(client *clients.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[siswa.NewService] siswa client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) Get(ctx context.Context, siswaID int64) (*Siswa, error) {
	env, err := clients.Get[Siswa](ctx, s.client, clients.IDPath(BasePath, siswaID), nil)
	if err != nil {
		return nil, fmt.Errorf("get siswa %d: %w", siswaID, err)
	}
	return &env.Data, nil
}

// Status reports how far the student got with registering for a periode jalur.
func (s *Service) Status(ctx context.Context, siswaID, periodeJalurID int64) (*Status, error) {
	path := clients.IDPath(StatusPath, siswaID, periodeJalurID)
	env, err := clients.Get[Status](ctx, s.client, path, nil)
	if err != nil {
		return nil, fmt.Errorf("status of siswa %d: %w", siswaID, err)
	}
	return &env.Data, nil
}

func (s *Service) Update(ctx context.Context, siswa Siswa) (*Siswa, error) {
	env, err := clients.Put[Siswa](ctx, s.client, clients.IDPath(BasePath, siswa.SiswaID), nil, siswa)
	if err != nil {
		return nil, fmt.Errorf("update siswa %d: %w", siswa.SiswaID, err)
	}
	return &env.Data, nil
}

func (s *Service) Delete(ctx context.Context, siswaID int64) (int64, error) {
	env, err := clients.Delete[Ref](ctx, s.client, clients.IDPath(BasePath, siswaID))
	if err != nil {
		return 0, fmt.Errorf("delete siswa %d: %w", siswaID, err)
	}
	return env.Data.SiswaID, nil
}

// ListBySekolah lists the students of a school. Extra filters are passed through as query parameters.
func (s *Service) ListBySekolah(ctx context.Context, sekolahID int64, page, limit int, filters url.Values) ([]Summary, *clients.Meta, error) {
	env, err := clients.Get[[]Summary](ctx, s.client, clients.IDPath(BySekolahPath, sekolahID), clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("list siswa of school %d: %w", sekolahID, err)
	}
	return env.Data, env.Meta, nil
}

// ListWithStatus lists the students of a school with their progress in one periode jalur.
func (s *Service) ListWithStatus(ctx context.Context, periodeJalurID, sekolahID int64, page, limit int) ([]WithStatus, *clients.Meta, error) {
	path := clients.IDPath(BasePath, periodeJalurID, sekolahID)
	env, err := clients.Get[[]WithStatus](ctx, s.client, path, clients.PageQuery(page, limit, nil))
	if err != nil {
		return nil, nil, fmt.Errorf("list siswa status of school %d: %w", sekolahID, err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) Total(ctx context.Context, sekolahID int64) (int, error) {
	env, err := clients.Get[int](ctx, s.client, clients.IDPath(TotalPath, sekolahID), nil)
	if err != nil {
		return 0, fmt.Errorf("total siswa of school %d: %w", sekolahID, err)
	}
	return env.Data, nil
}

func (s *Service) Agama(ctx context.Context) ([]Agama, error) {
	env, err := clients.Get[[]Agama](ctx, s.client, AgamaPath, nil)
	if err != nil {
		return nil, fmt.Errorf("agama: %w", err)
	}
	return env.Data, nil
}

func (s *Service) Pekerjaan(ctx context.Context) ([]Pekerjaan, error) {
	env, err := clients.Get[[]Pekerjaan](ctx, s.client, PekerjaanPath, nil)
	if err != nil {
		return nil, fmt.Errorf("pekerjaan: %w", err)
	}
	return env.Data, nil
}

func (s *Service) Penghasilan(ctx context.Context) ([]Penghasilan, error) {
	env, err := clients.Get[[]Penghasilan](ctx, s.client, PenghasilanPath, nil)
	if err != nil {
		return nil, fmt.Errorf("penghasilan: %w", err)
	}
	return env.Data, nil
}
