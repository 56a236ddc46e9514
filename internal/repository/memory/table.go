// Package memory implements the repositories on process memory. It is the
// default store and the one tests run against.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// table keeps rows by id and remembers insertion order.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

// insert must be called with mu held.
func (t *table[T]) insert(id uuid.UUID, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

// filter must be called with mu held for reading.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := make([]T, 0)
	for _, id := range t.order {
		if row := t.rows[id]; keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

var now = func() time.Time { return time.Now().UTC() }
