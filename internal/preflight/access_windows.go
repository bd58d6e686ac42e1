//go:build windows

package preflight

import "os"

const (
	modeExec      = 1
	modeReadWrite = 7
)

func accessible(path string, _ uint32) error {
	_, err := os.Stat(path)
	return err
}
