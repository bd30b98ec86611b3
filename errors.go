package autoroutes

import (
	"errors"
	"fmt"
)

var (
	// ErrEntryNotFound is returned when a candidate directory has no entry file
	// for any registered decoder. It marks a route that is not implemented, as
	// opposed to one that is broken.
	ErrEntryNotFound = errors.New("entry module not found")

	// ErrNoDefault is returned when a script entry does not export Default.
	ErrNoDefault = errors.New("entry module has no default export")

	// ErrNilModule is returned when a loader reports success without a module.
	ErrNilModule = errors.New("loader returned nil module")
)

// InvalidPatternError reports a malformed discovery pattern. It is always
// returned before the filesystem is touched.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid discovery pattern %q: %s", e.Pattern, e.Reason)
}

// FilesystemError reports a failure to enumerate the root directory.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("enumerate %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// LoadError reports a candidate whose entry module could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load route module %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFailure pairs a candidate location with the error raised while loading
// it. Failures are only recorded in tolerant mode.
type LoadFailure struct {
	Name string
	Path string
	Err  error
}
