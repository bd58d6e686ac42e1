package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"ahn/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	result := CheckCreatableDirectory("log", filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed {
		t.Fatalf("expected missing dir under writable parent to pass, got %s", result.Detail)
	}
}

func TestCheckBootstrap(t *testing.T) {
	app := testsupport.NewApp(t, "")
	if res := CheckBootstrap(filepath.Join(app, "script", "ahn")); !res.Passed {
		t.Fatalf("expected executable bootstrap to pass, got %s", res.Detail)
	}

	plain := filepath.Join(t.TempDir(), "ahn")
	if err := os.WriteFile(plain, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if os.Geteuid() != 0 {
		if res := CheckBootstrap(plain); res.Passed {
			t.Fatal("expected non-executable bootstrap to fail")
		}
	}
	if res := CheckBootstrap(filepath.Join(t.TempDir(), "missing")); res.Passed {
		t.Fatal("expected missing bootstrap to fail")
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	results := CheckBinaries([]Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Empty"},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected present binary to pass, got %#v", results[0])
	}
	if results[1].Passed || results[1].Failed() {
		t.Fatalf("expected optional missing binary to be a soft failure, got %#v", results[1])
	}
	if results[2].Passed || !results[2].Failed() {
		t.Fatalf("expected unconfigured command to fail, got %#v", results[2])
	}
}

func TestInterpreter(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"#!/bin/sh\necho hi\n":             "/bin/sh",
		"#!/usr/bin/env ruby -w\nputs 1\n": "ruby",
		"echo no shebang\n":                "",
	}
	i := 0
	for content, want := range cases {
		i++
		path := filepath.Join(dir, "script"+string(rune('a'+i)))
		if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
			t.Fatal(err)
		}
		if got := Interpreter(path); got != want {
			t.Fatalf("Interpreter(%q) = %q, want %q", content, got, want)
		}
	}
	if got := Interpreter(filepath.Join(dir, "missing")); got != "" {
		t.Fatalf("expected empty interpreter for missing file, got %q", got)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	app := testsupport.NewApp(t, "")

	results := RunAll(cfg, app, "")
	names := map[string]Result{}
	for _, r := range results {
		names[r.Name] = r
	}
	for _, want := range []string{"Bootstrap", "Bootstrap interpreter", "ps", "Pid file directory", "Daemon log directory", "History directory"} {
		if _, ok := names[want]; !ok {
			t.Fatalf("missing check %q in %#v", want, results)
		}
	}
	for _, r := range results {
		if r.Failed() {
			t.Fatalf("unexpected failed check %#v", r)
		}
	}
	if !names["ps"].Optional {
		t.Fatal("ps should be optional with the native probe")
	}
}
