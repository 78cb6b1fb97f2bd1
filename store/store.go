// Package store persists signature event logs.
//
// A Store keeps the raw events of any number of signatures, each under its
// own id, and returns them in insertion order. Drivers register themselves
// by name, following the database/sql driver pattern:
//
//	import _ "github.com/gogpu/ink/store/sqlite"
//
//	st, err := store.Open("sqlite", "signatures.db")
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
// The drawing core never calls a Store directly; see the persist package
// for the asynchronous sidecar that feeds one.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/ink"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store: closed")

// Store is a durable, append-only event log keyed by signature id.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds events to the log of id, creating it if needed.
	Append(ctx context.Context, id string, events ...ink.RawEvent) error

	// Events returns every event of id in insertion order. An unknown id
	// has no events.
	Events(ctx context.Context, id string) ([]ink.RawEvent, error)

	// IDs returns the ids that have at least one event, sorted.
	IDs(ctx context.Context) ([]string, error)

	// Delete removes the log of id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// NewID returns a fresh random signature id.
func NewID() string {
	return uuid.NewString()
}

// Driver opens a Store for a driver-specific data source name.
// Drivers are registered via Register() and called by Open().
type Driver func(dsn string) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available under name. It is typically called
// from init() in a driver package.
//
// Register panics if driver is nil or if a driver with the same name is
// already registered.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if driver == nil {
		panic("store: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("store: Register called twice for " + name)
	}
	drivers[name] = driver
}

// Unregister removes a driver. It is intended for tests.
func Unregister(name string) {
	driversMu.Lock()
	defer driversMu.Unlock()
	delete(drivers, name)
}

// Open opens a Store with the named driver.
// The error for an unknown name includes a hint about forgotten imports.
func Open(name, dsn string) (Store, error) {
	driversMu.RLock()
	driver, ok := drivers[name]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("store: unknown driver %q (forgotten import?)", name)
	}
	st, err := driver(dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	return st, nil
}

// Drivers returns a sorted list of registered driver names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads the log of id into a Signature stamped with versionCode.
func Load(ctx context.Context, st Store, id string, versionCode int) (ink.Signature, error) {
	events, err := st.Events(ctx, id)
	if err != nil {
		return ink.Signature{}, fmt.Errorf("store: load %s: %w", id, err)
	}
	return ink.Signature{VersionCode: versionCode, Events: events}, nil
}

// RestoreSession loads the log of id and replays it into s.
func RestoreSession(ctx context.Context, st Store, id string, s *ink.Session) error {
	sig, err := Load(ctx, st, id, s.Config().VersionCode)
	if err != nil {
		return err
	}
	ink.Logger().Info("store: restoring session", "id", id, "events", sig.Len())
	return s.SetSignature(sig)
}
