// Package approot recognizes application roots: directories that carry the
// bootstrap entry point the lifecycle controller hands control to.
package approot

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultBootstrap is the entry point, relative to the root, that marks an application.
const DefaultBootstrap = "script/ahn"

// Detector answers whether directories belong to an application.
type Detector struct {
	bootstrap string
}

// NewDetector returns a Detector keyed on the given bootstrap path.
func NewDetector(bootstrap string) *Detector {
	bootstrap = strings.TrimSpace(bootstrap)
	if bootstrap == "" {
		bootstrap = DefaultBootstrap
	}
	return &Detector{bootstrap: filepath.FromSlash(bootstrap)}
}

// Bootstrap returns the bootstrap path relative to an application root.
func (d *Detector) Bootstrap() string {
	return d.bootstrap
}

// BootstrapPath returns the absolute bootstrap path for root.
func (d *Detector) BootstrapPath(root string) string {
	return filepath.Join(root, d.bootstrap)
}

// IsApplication reports whether path is an application root.
func (d *Detector) IsApplication(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(d.BootstrapPath(path))
	return err == nil && !info.IsDir()
}

// IsInsideApplication reports whether path is an application root or one of
// its subdirectories.
func (d *Detector) IsInsideApplication(path string) bool {
	_, ok := d.Find(path)
	return ok
}

// Find walks up from path and returns the nearest enclosing application root.
func (d *Detector) Find(path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	current, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for {
		if d.IsApplication(current) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
