package pidfile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ahn/internal/pidfile"
)

func TestAcquireSerializesHolders(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "adhearsion.pid")

	first, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	_, err = pidfile.Acquire(context.Background(), pidPath, 250*time.Millisecond)
	if !errors.Is(err, pidfile.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout while held, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	second, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("release second: %v", err)
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "adhearsion.pid")
	first, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = first.Release()
	}()

	second, err := pidfile.Acquire(context.Background(), pidPath, 3*time.Second)
	if err != nil {
		t.Fatalf("expected waiter to obtain lock after release, got %v", err)
	}
	_ = second.Release()
}

func TestAcquireMissingDirectoryIsInert(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "missing", "adhearsion.pid")
	lock, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if err != nil {
		t.Fatalf("expected inert lock, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release inert lock: %v", err)
	}
}

func TestAcquireHonoursCancellation(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "adhearsion.pid")
	held, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pidfile.Acquire(ctx, pidPath, time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAcquireUnopenableLockFileIsUnavailable(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "adhearsion.pid")
	if err := os.Mkdir(pidfile.LockPath(pidPath), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := pidfile.Acquire(context.Background(), pidPath, time.Second)
	if !errors.Is(err, pidfile.ErrLockUnavailable) {
		t.Fatalf("expected ErrLockUnavailable, got %v", err)
	}
	if errors.Is(err, pidfile.ErrLockTimeout) {
		t.Fatal("an unopenable lock file is not contention")
	}
}
