package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-zonasi-client/clients"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	"github.com/jrsteele09/go-zonasi-client/portal"
	"github.com/rs/zerolog/log"
)

type flags struct {
	configFile string
	username   string
	password   string
	demo       bool
	logout     bool
	ping       time.Duration
	pingPath   string
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		log.Fatal().Err(err).Msg("Error running session client")
	}
	log.Info().Msg("Session client stopped")
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configFile, "config", config.GetConfigFile(), "TOML config file")
	flag.StringVar(&f.username, "username", "", "log in as this user on start")
	flag.StringVar(&f.password, "password", os.Getenv("ZONASI_PASSWORD"), "password for -username")
	flag.BoolVar(&f.demo, "demo", false, "run against an in-process fake backend")
	flag.BoolVar(&f.logout, "logout", false, "log out on exit instead of keeping the session")
	flag.DurationVar(&f.ping, "ping", 0, "call the siswa service at this interval")
	flag.StringVar(&f.pingPath, "ping-path", "/api/me", "siswa service path used by -ping")
	flag.Parse()
	return f
}

func run(f flags) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if f.demo {
		stop, err := startDemoBackend(&f)
		if err != nil {
			return err
		}
		defer stop()
	}

	c, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	closeLog := setupLogging(c)
	defer closeLog()
	displayAppname(c.GetAppName())
	log.Debug().Stringer("services", c.GetServiceURLs()).Msg("Resolved services")

	p, err := portal.New(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		return err
	}
	if f.username != "" && !p.State().IsLoggedIn() {
		if err := p.Login(ctx, f.username, f.password); err != nil {
			return fmt.Errorf("login %s: %w", f.username, err)
		}
	}
	if p.State().IsLoggedIn() {
		if err := p.Preload(ctx); err != nil {
			log.Warn().Err(err).Msg("Preload failed")
		}
		logSession(p)
	}
	if f.ping > 0 {
		go pingLoop(ctx, p, f.ping, f.pingPath)
	}

	waitForStopSignal(ctx, p)

	if f.logout {
		lctx, lcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer lcancel()
		if err := p.Logout(lctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	return nil
}

func logSession(p *portal.Portal) {
	snap := p.State().Snapshot()
	evt := log.Info().Time("expiry", snap.Expiry).Time("refresh_at", snap.RefreshAt)
	if snap.User != nil {
		evt = evt.Str("username", snap.User.Username).Str("role", string(snap.User.Role))
	}
	evt.Msg("Session active")
}

func pingLoop(ctx context.Context, p *portal.Portal, every time.Duration, path string) {
	client, err := p.Client(config.ServiceSiswa)
	if err != nil {
		log.Err(err).Msg("Ping disabled")
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := client.Do(ctx, &clients.Request{Path: path})
			if err != nil {
				log.Warn().Err(err).Msg("Ping failed")
				continue
			}
			log.Info().Int("status", resp.Status).Bool("retried", resp.Retried).Msg("Ping")
		}
	}
}

// waitForStopSignal blocks until SIGINT or SIGTERM. SIGCONT, sent when the
// process resumes from a stop, re-checks the refresh schedule.
func waitForStopSignal(ctx context.Context, p *portal.Portal) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGCONT)
	defer signal.Stop(sig)
	for s := range sig {
		if s != syscall.SIGCONT {
			log.Info().Stringer("signal", s).Msg("Stopping")
			return
		}
		if err := p.Resume(ctx); err != nil {
			log.Err(err).Msg("Resume failed")
		}
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
