package folio

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a slug, tag, listing page or page is absent.
	ErrNotFound = errors.New("folio: not found")
	// ErrBuildConfig classifies malformed configuration and front-matter.
	ErrBuildConfig = errors.New("folio: invalid build configuration")
)

// BuildConfigError reports malformed static input. It never reaches a
// request; config and content loading fail instead.
type BuildConfigError struct {
	Path  string // file that failed, if any
	Field string // offending key, if known
	Err   error
}

func (e *BuildConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "folio: invalid build configuration"
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *BuildConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrBuildConfig) match any BuildConfigError.
func (e *BuildConfigError) Is(target error) bool {
	return target == ErrBuildConfig
}

func configErr(path, field string, err error) error {
	return &BuildConfigError{Path: path, Field: field, Err: err}
}

func configErrf(path, field, format string, args ...any) error {
	return &BuildConfigError{Path: path, Field: field, Err: fmt.Errorf(format, args...)}
}
