// Package wilayah wraps the administrative region lookups of the wilayah service.
package wilayah

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/rs/zerolog/log"
)

const (
	ProvinsiPath    = "/wilayah/provinsi"
	KabupatenPath   = "/wilayah/kabupaten"
	KecamatanPath   = "/wilayah/kecamatan"
	DesaPath        = "/wilayah/desa"
	DesaTabananPath = DesaPath + "/tabanan"
	BanjarPath      = "/wilayah/banjar"
)

type Service struct {
	client *clients.Client

	mu          sync.RWMutex
	desaTabanan []Desa // nil until fetched
}

// NewService creates the wilayah service over the wilayah service client.
func NewService(client *clients.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[wilayah.NewService] wilayah client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) Provinsi(ctx context.Context) ([]Provinsi, error) {
	return list[Provinsi](ctx, s.client, ProvinsiPath, "provinsi")
}

func (s *Service) Kabupaten(ctx context.Context, provinsiID int64) ([]Kabupaten, error) {
	return list[Kabupaten](ctx, s.client, clients.IDPath(KabupatenPath, provinsiID), "kabupaten")
}

func (s *Service) Kecamatan(ctx context.Context, kabupatenID int64) ([]Kecamatan, error) {
	return list[Kecamatan](ctx, s.client, clients.IDPath(KecamatanPath, kabupatenID), "kecamatan")
}

func (s *Service) Desa(ctx context.Context, kecamatanID int64) ([]Desa, error) {
	return list[Desa](ctx, s.client, clients.IDPath(DesaPath, kecamatanID), "desa")
}

func (s *Service) Banjar(ctx context.Context, desaID int64) ([]Banjar, error) {
	return list[Banjar](ctx, s.client, clients.IDPath(BanjarPath, desaID), "banjar")
}

// DesaTabanan returns every desa of Tabanan, fetching it once per session.
func (s *Service) DesaTabanan(ctx context.Context) ([]Desa, error) {
	s.mu.RLock()
	cached := s.desaTabanan
	s.mu.RUnlock()
	if cached != nil {
		return slices.Clone(cached), nil
	}

	desa, err := list[Desa](ctx, s.client, DesaTabananPath, "desa tabanan")
	if err != nil {
		return nil, err
	}
	if desa == nil {
		desa = []Desa{}
	}
	s.mu.Lock()
	s.desaTabanan = slices.Clone(desa)
	s.mu.Unlock()
	log.Debug().Int("count", len(desa)).Msg("Cached desa Tabanan")
	return desa, nil
}

// ClearCache drops the session-scoped lookups.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desaTabanan = nil
}

func list[T any](ctx context.Context, c *clients.Client, path, what string) ([]T, error) {
	env, err := clients.Get[[]T](ctx, c, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return env.Data, nil
}
