package main

import (
	"net/http/httptest"
	"os"

	"github.com/jrsteele09/go-zonasi-client/internal/config"
	"github.com/jrsteele09/go-zonasi-client/internal/fakebackend"
	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/rs/zerolog/log"
)

const (
	demoUsername = "demo.sd"
	demoPassword = "demo"
)

// startDemoBackend serves the fake backend for every service and points the
// service URLs at it. Sessions are kept in a temporary data folder.
func startDemoBackend(f *flags) (func(), error) {
	backend := fakebackend.New(fakebackend.WithVerbose())
	admin := users.NewSchoolAdmin(1, demoUsername, users.RoleAdminSD, users.SchoolAdmin{SekolahID: 1, SekolahNama: "SD Negeri 1 Demo", RoleID: 2})
	if err := backend.AddAccount(admin, demoPassword); err != nil {
		return nil, err
	}
	srv := httptest.NewServer(backend)

	for _, name := range config.AllServices {
		if err := os.Setenv(name.EnvVarName(), srv.URL); err != nil {
			srv.Close()
			return nil, err
		}
	}
	dir, err := os.MkdirTemp("", "zonasi-demo-")
	if err != nil {
		srv.Close()
		return nil, err
	}
	if err := os.Setenv("FOLDER", dir); err != nil {
		srv.Close()
		return nil, err
	}

	if f.username == "" {
		f.username, f.password = demoUsername, demoPassword
	}
	log.Info().Str("url", srv.URL).Str("username", f.username).Msg("Demo backend started")
	return func() {
		srv.Close()
		_ = os.RemoveAll(dir)
	}, nil
}
