//go:build !windows

package preflight

import "golang.org/x/sys/unix"

const (
	modeExec      = unix.X_OK
	modeReadWrite = unix.R_OK | unix.W_OK | unix.X_OK
)

func accessible(path string, mode uint32) error {
	return unix.Access(path, mode)
}
