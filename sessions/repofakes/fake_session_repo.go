package repofakes

import (
	"sync"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/jrsteele09/go-zonasi-client/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the session in memory.
type FakeSessionRepo struct {
	stored *sessions.Persisted
	saves  int
	clears int
	lock   sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Load() (*sessions.Persisted, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.stored == nil {
		return nil, apperrors.ErrNotFound
	}
	p := *r.stored
	return &p, nil
}

func (r *FakeSessionRepo) Save(p *sessions.Persisted) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	cp := *p
	r.stored = &cp
	r.saves++
	return nil
}

func (r *FakeSessionRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.stored = nil
	r.clears++
	return nil
}

// Saves returns how many times Save was called.
func (r *FakeSessionRepo) Saves() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.saves
}

// Clears returns how many times Clear was called.
func (r *FakeSessionRepo) Clears() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.clears
}
