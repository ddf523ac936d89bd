package fakebackend

import (
	"maps"
	"slices"
	"sync"
)

// table is an in-memory store of rows keyed by id.
type table[T any] struct {
	mu   sync.Mutex
	rows map[int64]T
	next int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id int64, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = v
	t.next = max(t.next, id)
}

// insert stores the row built for the next free id.
func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	v := build(t.next)
	t.rows[t.next] = v
	return v
}

// update applies fn to the row under the table lock.
func (t *table[T]) update(id int64, fn func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	fn(&v)
	t.rows[id] = v
	return v, true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	delete(t.rows, id)
	return ok
}

// list returns the rows accepted by keep in id order. A nil keep accepts all.
func (t *table[T]) list(keep func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := []T{}
	for _, id := range slices.Sorted(maps.Keys(t.rows)) {
		if keep == nil || keep(t.rows[id]) {
			out = append(out, t.rows[id])
		}
	}
	return out
}
