// Package sekolah wraps the school, quota and zone endpoints of the sekolah service.
package sekolah

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/rs/zerolog/log"
)

const (
	BasePath         = "/sekolah"
	KuotaPath        = BasePath + "/kuota-sekolah"
	KuotaPeriodePath = KuotaPath + "/periode"
	ZonasiPath       = BasePath + "/zonasi"

	// fullListLimit is large enough to fetch every school of a level in one page.
	fullListLimit = 1000
)

type Service struct {
	client *clients.Client
	lists  ListCache
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithListCache replaces the in-memory school list cache.
func WithListCache(cache ListCache) ServiceOption {
	return func(s *Service) {
		s.lists = cache
	}
}

// NewService creates the sekolah service over the sekolah service client.
func NewService(client *clients.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[sekolah.NewService] sekolah client is required")
	}
	s := &Service{client: client, lists: NewMemoryListCache()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// ListCache is cleared by the owner when the session ends.
func (s *Service) ListCache() ListCache {
	return s.lists
}

func (s *Service) Get(ctx context.Context, sekolahID int64) (*Sekolah, error) {
	env, err := clients.Get[Sekolah](ctx, s.client, clients.IDPath(BasePath, sekolahID), nil)
	if err != nil {
		return nil, fmt.Errorf("get sekolah %d: %w", sekolahID, err)
	}
	return &env.Data, nil
}

func (s *Service) Update(ctx context.Context, sekolah Sekolah) (int64, error) {
	env, err := clients.Put[Ref](ctx, s.client, clients.IDPath(BasePath, sekolah.SekolahID), nil, sekolah)
	if err != nil {
		return 0, fmt.Errorf("update sekolah %d: %w", sekolah.SekolahID, err)
	}
	return env.Data.SekolahID, nil
}

func (s *Service) Delete(ctx context.Context, sekolahID int64) (int64, error) {
	env, err := clients.Delete[Ref](ctx, s.client, clients.IDPath(BasePath, sekolahID))
	if err != nil {
		return 0, fmt.Errorf("delete sekolah %d: %w", sekolahID, err)
	}
	return env.Data.SekolahID, nil
}

// List lists the schools of one level. Extra filters are passed through as query parameters.
func (s *Service) List(ctx context.Context, jenis Jenis, page, limit int, filters url.Values) ([]Summary, *clients.Meta, error) {
	env, err := clients.Get[[]Summary](ctx, s.client, BasePath+"/"+string(jenis), clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("list sekolah %s: %w", jenis, err)
	}
	return env.Data, env.Meta, nil
}

// All returns every school of a level, fetching the list once per session.
func (s *Service) All(ctx context.Context, jenis Jenis) ([]Summary, error) {
	if list, ok := s.lists.Get(jenis); ok {
		return list, nil
	}
	list, _, err := s.List(ctx, jenis, 1, fullListLimit, nil)
	if err != nil {
		return nil, err
	}
	s.lists.Set(jenis, list)
	log.Debug().Str("jenis", string(jenis)).Int("count", len(list)).Msg("Cached schools")
	return list, nil
}

// UpdateKuota changes a single quota line.
func (s *Service) UpdateKuota(ctx context.Context, kuotaSekolahID int64, kuota int) (*UpdatedKuota, error) {
	body := map[string]int{"kuota": kuota}
	env, err := clients.Patch[UpdatedKuota](ctx, s.client, clients.IDPath(KuotaPath, kuotaSekolahID), body)
	if err != nil {
		return nil, fmt.Errorf("update kuota %d: %w", kuotaSekolahID, err)
	}
	return &env.Data, nil
}

// ReplaceKuota updates several quota lines of one school in a periode.
func (s *Service) ReplaceKuota(ctx context.Context, sekolahID int64, req UpdateKuotaRequest) error {
	if _, err := clients.Put[any](ctx, s.client, clients.IDPath(KuotaPath, sekolahID), nil, req); err != nil {
		return fmt.Errorf("replace kuota of sekolah %d: %w", sekolahID, err)
	}
	return nil
}

func (s *Service) KuotaByPeriode(ctx context.Context, periodeID int64, page, limit int, filters url.Values) ([]KuotaSekolah, *clients.Meta, error) {
	env, err := clients.Get[[]KuotaSekolah](ctx, s.client, clients.IDPath(KuotaPeriodePath, periodeID), clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("kuota of periode %d: %w", periodeID, err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) CreateZonasi(ctx context.Context, req ZonasiRequest) (*Zonasi, error) {
	env, err := clients.Post[Zonasi](ctx, s.client, ZonasiPath, req)
	if err != nil {
		return nil, fmt.Errorf("create zonasi for sekolah %d: %w", req.SekolahID, err)
	}
	return &env.Data, nil
}

func (s *Service) ListZonasi(ctx context.Context, page, limit int, filters url.Values) ([]Zonasi, *clients.Meta, error) {
	env, err := clients.Get[[]Zonasi](ctx, s.client, ZonasiPath, clients.PageQuery(page, limit, filters))
	if err != nil {
		return nil, nil, fmt.Errorf("list zonasi: %w", err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) UpdateZonasi(ctx context.Context, zonasiID int64, req ZonasiRequest) (*Zonasi, error) {
	env, err := clients.Put[Zonasi](ctx, s.client, clients.IDPath(ZonasiPath, zonasiID), nil, req)
	if err != nil {
		return nil, fmt.Errorf("update zonasi %d: %w", zonasiID, err)
	}
	return &env.Data, nil
}

func (s *Service) DeleteZonasi(ctx context.Context, zonasiID int64) (int64, error) {
	env, err := clients.Delete[ZonasiRef](ctx, s.client, clients.IDPath(ZonasiPath, zonasiID))
	if err != nil {
		return 0, fmt.Errorf("delete zonasi %d: %w", zonasiID, err)
	}
	return env.Data.ZonasiID, nil
}
