package pidfile

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultName is the pid file name used under an application root.
const DefaultName = "adhearsion.pid"

// Status classifies the result of reading a pid file.
type Status string

const (
	StatusFound      Status = "found"
	StatusNotFound   Status = "not_found"
	StatusUnparsable Status = "unparsable"
)

// Record is the outcome of reading a pid file.
type Record struct {
	Path   string
	PID    int
	Status Status
	// Err holds the underlying read or parse failure, if any.
	Err error
}

// OK reports whether the record holds a usable pid.
func (r Record) OK() bool {
	return r.Status == StatusFound && r.PID > 0
}

// Read loads the pid stored at path.
func Read(path string) Record {
	rec := Record{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		rec.Status = StatusNotFound
		rec.Err = err
		return rec
	}

	value := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(value)
	if err != nil {
		rec.Status = StatusUnparsable
		rec.Err = err
		return rec
	}
	if pid <= 0 {
		rec.Status = StatusUnparsable
		rec.Err = errors.New("pid must be a positive integer")
		return rec
	}

	rec.Status = StatusFound
	rec.PID = pid
	return rec
}

// Resolve returns the effective pid file location for an invocation.
//
// An absolute override is used as given. A relative override that already
// exists relative to workingDir is used from there; otherwise it is taken
// relative to root. Without an override the file is name under root.
func Resolve(root, override, name, workingDir string) string {
	override = strings.TrimSpace(override)
	if override == "" {
		if strings.TrimSpace(name) == "" {
			name = DefaultName
		}
		return filepath.Join(root, name)
	}
	if filepath.IsAbs(override) {
		return filepath.Clean(override)
	}
	if workingDir != "" {
		candidate := filepath.Join(workingDir, override)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(root, override)
}
