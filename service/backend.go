package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/vecnode/engine"
	"github.com/viant/vecnode/logging"
	"github.com/viant/vecnode/vector"
)

// Mode is the lifecycle state of the storage backend. It is decided once at
// startup and never changes afterwards.
type Mode int

const (
	// ModeReady means the store is open and the vec10k table was ensured.
	ModeReady Mode = iota
	// ModeDegraded means the store could not be opened; no data is served.
	ModeDegraded
)

func (m Mode) String() string {
	switch m {
	case ModeReady:
		return "ready"
	case ModeDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Store is the storage capability the service needs.
type Store interface {
	vector.Store

	// TableExists reports whether the vector table is present.
	TableExists(ctx context.Context) (bool, error)
}

// Backend holds the storage handle together with its mode.
type Backend struct {
	mode   Mode
	store  Store
	reason error
}

// ReadyBackend wraps an opened store.
func ReadyBackend(store Store) *Backend {
	if store == nil {
		return DegradedBackend(errors.New("service: nil store"))
	}
	return &Backend{mode: ModeReady, store: store}
}

// DegradedBackend records why the store is unavailable.
func DegradedBackend(reason error) *Backend {
	return &Backend{mode: ModeDegraded, reason: reason}
}

// BackendOptions locates the database.
type BackendOptions struct {
	Dir    string
	File   string
	Engine engine.Options
}

// OpenBackend checks that the SQLite backend is usable, opens the database
// under opts.Dir and ensures the vec10k table. Any failure produces a
// degraded backend instead of an error.
func OpenBackend(ctx context.Context, opts BackendOptions, logger *logging.Logger) *Backend {
	if logger == nil {
		logger = logging.NoopLogger()
	}
	b := openBackend(ctx, opts)
	logger.LogBackend(ctx, opts.Dir, b.reason)
	return b
}

func openBackend(ctx context.Context, opts BackendOptions) *Backend {
	if err := engine.Probe(); err != nil {
		return DegradedBackend(err)
	}
	db, err := engine.OpenPath(ctx, opts.Dir, opts.File, opts.Engine)
	if err != nil {
		return DegradedBackend(err)
	}
	store, err := vector.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return DegradedBackend(err)
	}
	return ReadyBackend(store)
}

// Mode returns the backend mode.
func (b *Backend) Mode() Mode { return b.mode }

// Reason returns the error that put the backend in degraded mode, or nil.
func (b *Backend) Reason() error { return b.reason }

// Store returns the open store when the backend is ready.
func (b *Backend) Store() (Store, bool) {
	return b.store, b.mode == ModeReady
}

// Close releases the store. It is a no-op for a degraded backend.
func (b *Backend) Close() error {
	if b.mode != ModeReady {
		return nil
	}
	return b.store.Close()
}
