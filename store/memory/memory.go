// Package memory provides an in-process store.Store, registered as
// "memory". The data source name is ignored; every Open returns an empty
// store.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

func init() {
	store.Register("memory", func(string) (store.Store, error) {
		return New(), nil
	})
}

// Store keeps event logs in maps. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	logs   map[string][]ink.RawEvent
	closed bool
}

// New creates an empty Store.
func New() *Store {
	return &Store{logs: make(map[string][]ink.RawEvent)}
}

// Append implements store.Store.
func (s *Store) Append(ctx context.Context, id string, events ...ink.RawEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	if len(events) == 0 {
		return nil
	}
	s.logs[id] = append(s.logs[id], events...)
	return nil
}

// Events implements store.Store.
func (s *Store) Events(ctx context.Context, id string) ([]ink.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return slices.Clone(s.logs[id]), nil
}

// IDs implements store.Store.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	ids := make([]string, 0, len(s.logs))
	for id := range s.logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete implements store.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	delete(s.logs, id)
	return nil
}

// Close drops all logs. Further calls fail with store.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.logs = nil
	return nil
}
