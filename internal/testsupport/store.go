package testsupport

import (
	"context"
	"testing"

	"ahn/internal/config"
	"ahn/internal/history"
)

// MustOpenHistory opens the config's history store and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecentEvents returns every recorded event, newest first.
func RecentEvents(t testing.TB, store *history.Store) []history.Event {
	t.Helper()

	events, err := store.Recent(context.Background(), "", 1000)
	if err != nil {
		t.Fatalf("store.Recent: %v", err)
	}
	return events
}
