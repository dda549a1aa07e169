package album

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the album directory does not exist.
	ErrNotFound = errors.New("album directory not found")
	// ErrLocked indicates another process holds the album lock.
	ErrLocked = errors.New("album is locked by another folio process")
	// ErrRelativePath indicates Open was given a path that is not absolute.
	ErrRelativePath = errors.New("album path must be absolute")
)

// PersistenceError reports a failed write of album or image state. It is
// always fatal to the operation that produced it.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for CLI exit-code mapping.
func (e *PersistenceError) ErrorKind() string { return "persistence" }
