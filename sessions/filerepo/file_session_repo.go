// Package filerepo stores the durable session as a JSON file on an afero filesystem.
package filerepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/sessions"
	"github.com/spf13/afero"
)

const (
	sessionFileName = "session.json"
	dirPermissions  = 0o700
	filePermissions = 0o600
)

var _ sessions.Repo = (*Repo)(nil)

type Repo struct {
	fs   afero.Fs
	path string
	lock sync.Mutex
}

// New creates the repo in dir, creating the directory when missing.
func New(fs afero.Fs, dir string) (*Repo, error) {
	if err := fs.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &Repo{fs: fs, path: filepath.Join(dir, sessionFileName)}, nil
}

// NewOS is New on the host filesystem.
func NewOS(dir string) (*Repo, error) {
	return New(afero.NewOsFs(), dir)
}

func (r *Repo) Path() string {
	return r.path
}

func (r *Repo) Load() (*sessions.Persisted, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session file %s: %w", r.path, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read session file %s: %w", r.path, err)
	}

	var p sessions.Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", r.path, err)
	}
	return &p, nil
}

// Save writes through a temp file and renames it so readers never see a partial session.
func (r *Repo) Save(p *sessions.Persisted) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	tmp := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", tmp, err)
	}
	if err := r.fs.Rename(tmp, r.path); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("failed to rename session file: %w", err)
	}
	return nil
}

func (r *Repo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.fs.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file %s: %w", r.path, err)
	}
	return nil
}
