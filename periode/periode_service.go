// Package periode wraps the admission period, track and schedule endpoints of
// the periode service.
package periode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-zonasi-client/clients"
)

const (
	PeriodePath      = "/periode/periode"
	PeriodeJalurPath = "/periode/periode-jalur"
	JadwalPath       = "/periode/jadwal"
	JadwalStatusPath = JadwalPath + "/status"
	JalurPath        = "/periode/jalur"
	TahapanPath      = "/periode/tahapan"
)

type Service struct {
	client *clients.Client
}

// NewService creates the periode service over the periode service client.
func NewService(client *clients.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[periode.NewService] periode client is required")
	}
	return &Service{client: client}, nil
}

func (s *Service) Create(ctx context.Context, req CreatePeriodeRequest) (*Periode, error) {
	if strings.TrimSpace(req.NamaPeriode) == "" {
		return nil, errors.New("create periode: nama_periode is required")
	}
	env, err := clients.Post[Periode](ctx, s.client, PeriodePath, req)
	if err != nil {
		return nil, fmt.Errorf("create periode %q: %w", req.NamaPeriode, err)
	}
	return &env.Data, nil
}

func (s *Service) List(ctx context.Context, page, limit int) ([]Periode, *clients.Meta, error) {
	env, err := clients.Get[[]Periode](ctx, s.client, PeriodePath, clients.PageQuery(page, limit, nil))
	if err != nil {
		return nil, nil, fmt.Errorf("list periode: %w", err)
	}
	return env.Data, env.Meta, nil
}

func (s *Service) Update(ctx context.Context, periodeID int64, req CreatePeriodeRequest) (*Periode, error) {
	env, err := clients.Put[Periode](ctx, s.client, clients.IDPath(PeriodePath, periodeID), nil, req)
	if err != nil {
		return nil, fmt.Errorf("update periode %d: %w", periodeID, err)
	}
	return &env.Data, nil
}

func (s *Service) Delete(ctx context.Context, periodeID int64) (int64, error) {
	env, err := clients.Delete[Ref](ctx, s.client, clients.IDPath(PeriodePath, periodeID))
	if err != nil {
		return 0, fmt.Errorf("delete periode %d: %w", periodeID, err)
	}
	return env.Data.PeriodeID, nil
}

func (s *Service) CreateJalur(ctx context.Context, req JalurRequest) (*Jalur, error) {
	env, err := clients.Post[Jalur](ctx, s.client, PeriodeJalurPath, req)
	if err != nil {
		return nil, fmt.Errorf("open jalur %d in periode %d: %w", req.JalurID, req.PeriodeID, err)
	}
	return &env.Data, nil
}

// Jalurs lists the tracks opened in a periode.
func (s *Service) Jalurs(ctx context.Context, periodeID int64) ([]Jalur, error) {
	env, err := clients.Get[[]Jalur](ctx, s.client, clients.IDPath(PeriodeJalurPath, periodeID), nil)
	if err != nil {
		return nil, fmt.Errorf("jalur of periode %d: %w", periodeID, err)
	}
	return env.Data, nil
}

func (s *Service) UpdateJalur(ctx context.Context, periodeJalurID int64, req JalurRequest) (*Jalur, error) {
	req.PeriodeID = 0 // a jalur cannot move to another periode
	env, err := clients.Put[Jalur](ctx, s.client, clients.IDPath(PeriodeJalurPath, periodeJalurID), nil, req)
	if err != nil {
		return nil, fmt.Errorf("update periode jalur %d: %w", periodeJalurID, err)
	}
	return &env.Data, nil
}

func (s *Service) DeleteJalur(ctx context.Context, periodeJalurID int64) (int64, error) {
	env, err := clients.Delete[JalurRef](ctx, s.client, clients.IDPath(PeriodeJalurPath, periodeJalurID))
	if err != nil {
		return 0, fmt.Errorf("delete periode jalur %d: %w", periodeJalurID, err)
	}
	return env.Data.PeriodeJalurID, nil
}

func (s *Service) CreateJadwal(ctx context.Context, req JadwalRequest) (*Jadwal, error) {
	env, err := clients.Post[Jadwal](ctx, s.client, JadwalPath, req)
	if err != nil {
		return nil, fmt.Errorf("create jadwal for periode jalur %d: %w", req.PeriodeJalurID, err)
	}
	return &env.Data, nil
}

// Jadwals lists the stage schedule of a periode jalur.
func (s *Service) Jadwals(ctx context.Context, periodeJalurID int64) ([]Jadwal, error) {
	env, err := clients.Get[[]Jadwal](ctx, s.client, clients.IDPath(JadwalPath, periodeJalurID), nil)
	if err != nil {
		return nil, fmt.Errorf("jadwal of periode jalur %d: %w", periodeJalurID, err)
	}
	return env.Data, nil
}

func (s *Service) UpdateJadwal(ctx context.Context, jadwalID int64, req JadwalRequest) (*Jadwal, error) {
	env, err := clients.Put[Jadwal](ctx, s.client, clients.IDPath(JadwalPath, jadwalID), nil, req)
	if err != nil {
		return nil, fmt.Errorf("update jadwal %d: %w", jadwalID, err)
	}
	return &env.Data, nil
}

func (s *Service) DeleteJadwal(ctx context.Context, jadwalID int64) (int64, error) {
	env, err := clients.Delete[JadwalRef](ctx, s.client, clients.IDPath(JadwalPath, jadwalID))
	if err != nil {
		return 0, fmt.Errorf("delete jadwal %d: %w", jadwalID, err)
	}
	return env.Data.JadwalID, nil
}

// SetJadwalClosed opens or closes a stage.
func (s *Service) SetJadwalClosed(ctx context.Context, jadwalID int64, closed bool) (*Jadwal, error) {
	body := map[string]int{"is_closed": 0}
	if closed {
		body["is_closed"] = 1
	}
	env, err := clients.Patch[Jadwal](ctx, s.client, clients.IDPath(JadwalStatusPath, jadwalID), body)
	if err != nil {
		return nil, fmt.Errorf("set jadwal %d closed=%t: %w", jadwalID, closed, err)
	}
	return &env.Data, nil
}

// JalurOptions returns the jalur lookup list.
func (s *Service) JalurOptions(ctx context.Context) ([]JalurOption, error) {
	env, err := clients.Get[[]JalurOption](ctx, s.client, JalurPath, nil)
	if err != nil {
		return nil, fmt.Errorf("jalur: %w", err)
	}
	return env.Data, nil
}

func (s *Service) Tahapan(ctx context.Context) ([]Tahapan, error) {
	env, err := clients.Get[[]Tahapan](ctx, s.client, TahapanPath, nil)
	if err != nil {
		return nil, fmt.Errorf("tahapan: %w", err)
	}
	return env.Data, nil
}
