package testsupport

import (
	"context"
	"testing"

	"m4bforge/internal/config"
	"m4bforge/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewJob inserts a pending job for tests.
func NewJob(t testing.TB, store *queue.Store, inputDir, title string) *queue.Item {
	t.Helper()

	item, err := store.NewJob(context.Background(), queue.Item{
		InputDir:  inputDir,
		BookTitle: title,
	})
	if err != nil {
		t.Fatalf("store.NewJob: %v", err)
	}
	return item
}
