package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy. Concrete errors wrap one of these
// so callers can test with errors.Is.
var (
	// ErrUnresolvedVariable aborts a whole plugin operation before any write.
	ErrUnresolvedVariable = errors.New("unresolved variable")
	// ErrSelectorNotFound is recoverable: the edit is skipped and logged.
	ErrSelectorNotFound = errors.New("selector not found")
	// ErrFileParse is fatal for one target file only.
	ErrFileParse = errors.New("file parse error")
	// ErrIO is fatal for the operation, which may be retried.
	ErrIO = errors.New("io error")
	// ErrStoreCorrupt means the persisted munge state cannot be trusted.
	ErrStoreCorrupt = errors.New("munge store corrupt")
)

// UnresolvedVariableError lists every variable a plugin referenced without a
// binding.
type UnresolvedVariableError struct {
	Plugin PluginID
	Names  []string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("plugin %s: unresolved variable(s): %s", e.Plugin, strings.Join(e.Names, ", "))
}

// Is matches ErrUnresolvedVariable.
func (e *UnresolvedVariableError) Is(target error) bool {
	return target == ErrUnresolvedVariable
}

// FileError ties a parse or io failure to the target file it happened on.
type FileError struct {
	Kind error
	File FileID
	Err  error
}

// NewFileParseError wraps err as a parse failure of file.
func NewFileParseError(file FileID, err error) *FileError {
	return &FileError{Kind: ErrFileParse, File: file, Err: err}
}

// NewIOError wraps err as an io failure on file.
func NewIOError(file FileID, err error) *FileError {
	return &FileError{Kind: ErrIO, File: file, Err: err}
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.File, e.Kind, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the cause.
func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// StoreCorruptError reports a persisted store that cannot be decoded.
type StoreCorruptError struct {
	Path Path
	Err  error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("munge store %s is corrupt (run rebuild to recover): %v", e.Path, e.Err)
}

// Unwrap exposes both ErrStoreCorrupt and the cause.
func (e *StoreCorruptError) Unwrap() []error {
	return []error{ErrStoreCorrupt, e.Err}
}
