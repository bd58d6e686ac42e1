package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrPathRequired reports that no application root was supplied or inferred.
	ErrPathRequired = errors.New("path required")
	// ErrPathInvalid reports that a path is not an application root.
	ErrPathInvalid = errors.New("path does not belong to an application")
	// ErrUnknownCommand reports an unrecognized operation name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrStillRunning reports that restart refused to launch a second server.
	ErrStillRunning = errors.New("server still running")
)

// PathRequiredError names the operation that lacked a root.
type PathRequiredError struct {
	Operation Operation
}

func (e *PathRequiredError) Error() string {
	return fmt.Sprintf("path required for %s", e.Operation)
}

func (e *PathRequiredError) Is(target error) bool { return target == ErrPathRequired }

// PathInvalidError carries the rejected path.
type PathInvalidError struct {
	Path string
}

func (e *PathInvalidError) Error() string {
	return fmt.Sprintf("directory %s does not belong to an ahn application", e.Path)
}

func (e *PathInvalidError) Is(target error) bool { return target == ErrPathInvalid }

// UnknownCommandError carries the unrecognized command line.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Command)
}

func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }
