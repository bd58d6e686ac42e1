package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"ahn/internal/history"
	"ahn/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)

	ctx := context.Background()
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := store.Record(ctx, history.Event{
		Operation:  history.OperationStop,
		Root:       "/apps/foo",
		PID:        4242,
		Outcome:    "stopped_gracefully",
		PidFile:    "/apps/foo/adhearsion.pid",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected event id to be assigned")
	}

	events := testsupport.RecentEvents(t, store)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	ev := events[0]
	if ev.Operation != history.OperationStop || ev.PID != 4242 || ev.Outcome != "stopped_gracefully" {
		t.Fatalf("unexpected event %#v", ev)
	}
	if ev.Duration() != time.Second {
		t.Fatalf("expected 1s duration, got %s", ev.Duration())
	}
	if ev.LaunchID != "" {
		t.Fatalf("expected empty launch id, got %q", ev.LaunchID)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Event{Operation: history.OperationDaemon, Root: "/apps/foo", Outcome: "launched"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenHistory(t, cfg)
	if got := len(testsupport.RecentEvents(t, reopened)); got != 1 {
		t.Fatalf("expected event to survive reopen, got %d", got)
	}
}

func TestRecentFiltersByRootNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for _, ev := range []history.Event{
		{Operation: history.OperationDaemon, Root: "/apps/foo", Outcome: "launched"},
		{Operation: history.OperationDaemon, Root: "/apps/bar", Outcome: "launched"},
		{Operation: history.OperationStop, Root: "/apps/foo", Outcome: "already_stopped"},
	} {
		if _, err := store.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	events, err := store.Recent(ctx, "/apps/foo", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected two events for /apps/foo, got %d", len(events))
	}
	if events[0].Operation != history.OperationStop || events[1].Operation != history.OperationDaemon {
		t.Fatalf("expected newest first, got %s then %s", events[0].Operation, events[1].Operation)
	}

	limited, err := store.Recent(ctx, "", 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Root != "/apps/foo" {
		t.Fatalf("unexpected limited result %#v", limited)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	for range 5 {
		if _, err := store.Record(ctx, history.Event{Operation: history.OperationStart, Root: "/apps/foo", Outcome: "exited"}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if got := len(testsupport.RecentEvents(t, store)); got != 2 {
		t.Fatalf("expected 2 remaining, got %d", got)
	}
}

func TestRecordRequiresOperation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if _, err := store.Record(context.Background(), history.Event{Root: "/apps/foo"}); err == nil {
		t.Fatal("expected error for missing operation")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenDetectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.BumpSchemaVersionForTest(context.Background()); err != nil {
		t.Fatalf("bump schema: %v", err)
	}
	store.Close()

	_, err = history.Open(path)
	if !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
