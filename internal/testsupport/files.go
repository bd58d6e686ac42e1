package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteApp turns dir into an application root whose bootstrap runs script.
// An empty script exits immediately.
func WriteApp(t testing.TB, dir, script string) string {
	t.Helper()

	if script == "" {
		script = "exit 0"
	}
	bootstrap := filepath.Join(dir, "script", "ahn")
	if err := os.MkdirAll(filepath.Dir(bootstrap), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", bootstrap, err)
	}
	if err := os.WriteFile(bootstrap, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", bootstrap, err)
	}
	return dir
}

// NewApp creates an application root in a fresh temp directory.
func NewApp(t testing.TB, script string) string {
	t.Helper()
	return WriteApp(t, t.TempDir(), script)
}

// WritePidFile writes content verbatim to path.
func WritePidFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
