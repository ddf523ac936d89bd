// Package portal assembles the session client: one session state, one client
// per backend service, the refresh coordinator and its scheduler, the typed
// domain services and the route guard.
package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-zonasi-client/accounts"
	"github.com/jrsteele09/go-zonasi-client/auth"
	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	"github.com/jrsteele09/go-zonasi-client/pengumuman"
	"github.com/jrsteele09/go-zonasi-client/periode"
	"github.com/jrsteele09/go-zonasi-client/routes"
	"github.com/jrsteele09/go-zonasi-client/sekolah"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/jrsteele09/go-zonasi-client/sessions/filerepo"
	"github.com/jrsteele09/go-zonasi-client/siswa"
	"github.com/jrsteele09/go-zonasi-client/token/refresh"
	"github.com/jrsteele09/go-zonasi-client/wilayah"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

type Portal struct {
	state       *sessions.State
	factory     *clients.Factory
	coordinator *refresh.Coordinator
	auth        *auth.Service
	accounts    *accounts.Service
	siswa       *siswa.Service
	sekolah     *sekolah.Service
	periode     *periode.Service
	pengumuman  *pengumuman.Service
	wilayah     *wilayah.Service
	guard       *routes.Guard
}

type options struct {
	repo        sessions.Repo
	fs          afero.Fs
	httpClient  *http.Client
	refreshOpts []refresh.Option
}

// Option defines a function type to modify how the Portal is assembled.
type Option func(*options)

// WithRepo persists the session to repo instead of the data folder.
func WithRepo(repo sessions.Repo) Option {
	return func(o *options) {
		o.repo = repo
	}
}

// WithFS keeps the session file in the data folder of fs.
func WithFS(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithRefreshOptions is passed to the coordinator after the configured ones (primarily for testing)
func WithRefreshOptions(opts ...refresh.Option) Option {
	return func(o *options) {
		o.refreshOpts = append(o.refreshOpts, opts...)
	}
}

// New wires the client together. It does not touch the network or the
// persisted session; call Start for that.
func New(cfg config.Config, opts ...Option) (*Portal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[portal.New] config is required")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	repo, err := o.sessionRepo(cfg.GetDataFolder())
	if err != nil {
		return nil, fmt.Errorf("[portal.New] session repo: %w", err)
	}
	state := sessions.NewState(sessions.WithRepo(repo))

	var clientOpts []clients.Option
	if o.httpClient != nil {
		clientOpts = append(clientOpts, clients.WithHTTPClient(o.httpClient))
	}
	factory, err := clients.NewFactory(cfg, state, nil, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}
	authClient, err := factory.New(config.ServiceAuth)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}

	authService, err := auth.NewService(authClient, state)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}

	refreshOpts := append([]refresh.Option{
		refresh.WithLogout(authService.Logout),
		refresh.WithLeadTime(cfg.GetRefreshLeadTime()),
		refresh.WithRefreshTimeout(cfg.GetRefreshTimeout()),
	}, o.refreshOpts...)
	coordinator, err := refresh.NewCoordinator(state, authService, refreshOpts...)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}
	authService.SetScheduler(coordinator.Scheduler())
	factory.SetRenewer(clients.RenewerFunc(coordinator.Await))

	accountsService, err := accounts.NewService(authClient)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}
	authService.OnLogout(accountsService.RoleCache().Clear)

	p := &Portal{
		state:       state,
		factory:     factory,
		coordinator: coordinator,
		auth:        authService,
		accounts:    accountsService,
	}
	if err := p.newDomainServices(); err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}
	authService.OnLogout(p.sekolah.ListCache().Clear)
	authService.OnLogout(p.wilayah.ClearCache)

	p.guard, err = routes.NewGuard(state, routes.RefresherFunc(func(ctx context.Context) error {
		_, err := coordinator.Await(ctx)
		return err
	}), authService.Logout)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] %w", err)
	}
	return p, nil
}

// newDomainServices binds each typed service to the client of its backend service.
func (p *Portal) newDomainServices() error {
	byService := make(map[config.ServiceName]*clients.Client)
	for _, name := range []config.ServiceName{config.ServiceSiswa, config.ServiceSekolah, config.ServicePeriode, config.ServicePengumuman, config.ServiceWilayah} {
		c, err := p.factory.New(name)
		if err != nil {
			return err
		}
		byService[name] = c
	}

	var err error
	if p.siswa, err = siswa.NewService(byService[config.ServiceSiswa]); err != nil {
		return err
	}
	if p.sekolah, err = sekolah.NewService(byService[config.ServiceSekolah]); err != nil {
		return err
	}
	if p.periode, err = periode.NewService(byService[config.ServicePeriode]); err != nil {
		return err
	}
	if p.pengumuman, err = pengumuman.NewService(byService[config.ServicePengumuman]); err != nil {
		return err
	}
	p.wilayah, err = wilayah.NewService(byService[config.ServiceWilayah])
	return err
}

func (o *options) sessionRepo(dataFolder string) (sessions.Repo, error) {
	switch {
	case o.repo != nil:
		return o.repo, nil
	case o.fs != nil:
		return filerepo.New(o.fs, dataFolder)
	default:
		return filerepo.NewOS(dataFolder)
	}
}

// Start restores the persisted session and re-arms its refresh.
func (p *Portal) Start(ctx context.Context) error {
	if err := p.state.Restore(); err != nil {
		return fmt.Errorf("[portal.Start] %w", err)
	}
	if !p.state.IsLoggedIn() {
		log.Debug().Msg("No persisted session")
		return nil
	}
	snap := p.state.Snapshot()
	log.Info().Time("expiry", snap.Expiry).Msg("Restored session")
	return p.coordinator.Scheduler().ScheduleNext(ctx)
}

func (p *Portal) Login(ctx context.Context, username, password string) error {
	return p.auth.Login(ctx, username, password)
}

func (p *Portal) Logout(ctx context.Context) error {
	return p.auth.Logout(ctx)
}

// Refresh starts a refresh wave unless one is already running.
func (p *Portal) Refresh(ctx context.Context) error {
	return p.coordinator.Refresh(ctx)
}

// Resume is called when the process comes back from suspension.
func (p *Portal) Resume(ctx context.Context) error {
	return p.coordinator.Scheduler().Resume(ctx)
}

// Client returns the client bound to service.
func (p *Portal) Client(service config.ServiceName) (*clients.Client, error) {
	return p.factory.New(service)
}

func (p *Portal) State() *sessions.State            { return p.state }
func (p *Portal) Guard() *routes.Guard              { return p.guard }
func (p *Portal) Accounts() *accounts.Service       { return p.accounts }
func (p *Portal) Siswa() *siswa.Service             { return p.siswa }
func (p *Portal) Sekolah() *sekolah.Service         { return p.sekolah }
func (p *Portal) Periode() *periode.Service         { return p.periode }
func (p *Portal) Pengumuman() *pengumuman.Service   { return p.pengumuman }
func (p *Portal) Wilayah() *wilayah.Service         { return p.wilayah }
func (p *Portal) Coordinator() *refresh.Coordinator { return p.coordinator }

// Preload warms session-scoped reference data concurrently: the role list,
// the SD and SMP school lists and the desa of Tabanan, plus any loaders given.
// The first error cancels the rest.
func (p *Portal) Preload(ctx context.Context, loaders ...func(ctx context.Context) error) error {
	pl := pool.New().WithContext(ctx).WithCancelOnError()
	pl.Go(func(ctx context.Context) error {
		_, err := p.accounts.Roles(ctx)
		return err
	})
	for _, jenis := range []sekolah.Jenis{sekolah.JenisSD, sekolah.JenisSMP} {
		pl.Go(func(ctx context.Context) error {
			_, err := p.sekolah.All(ctx, jenis)
			return err
		})
	}
	pl.Go(func(ctx context.Context) error {
		_, err := p.wilayah.DesaTabanan(ctx)
		return err
	})
	for _, load := range loaders {
		pl.Go(load)
	}
	if err := pl.Wait(); err != nil {
		return fmt.Errorf("[portal.Preload] %w", err)
	}
	return nil
}
