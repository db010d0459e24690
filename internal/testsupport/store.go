package testsupport

import (
	"context"
	"testing"

	"workq/internal/config"
	"workq/internal/logging"
	"workq/internal/queue"
)

// NewConfig produces a config whose database lives in a per-test temp dir.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.DatabasePath = t.TempDir() + "/workq.db"
	return &cfg
}

// MustCreateStore creates a fresh queue database for tests and registers
// cleanup.
func MustCreateStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Create(cfg)
	if err != nil {
		t.Fatalf("queue.Create: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenStore opens an existing queue database for tests and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustDefineTask defines a task for tests using the provided store.
func MustDefineTask(t testing.TB, store *queue.Store, data string, count int64, priority *int64) int64 {
	t.Helper()

	id, err := store.DefineTask(context.Background(), []byte(data), count, priority)
	if err != nil {
		t.Fatalf("store.DefineTask: %v", err)
	}
	return id
}

// Priority is a convenience for taking the address of a literal.
func Priority(value int64) *int64 {
	return &value
}
