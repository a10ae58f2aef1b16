// Package errors defines the coded error type shared by the loaders and the
// CLI. Every fatal condition carries a code, the path or name it concerns,
// and remediation hints the diagnostics layer prints under the message.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Code classifies an error for exit handling and hint selection.
type Code int

const (
	UnknownCode Code = iota

	// FileNotFoundCode means the entry path does not exist on disk.
	FileNotFoundCode
	// ModuleNotFoundCode means the file loaded fine but does not export a
	// module with the requested name.
	ModuleNotFoundCode
	// LoadFailureCode means no loader strategy could interpret the file.
	LoadFailureCode
	// ManifestInvalidCode means a manifest decoded but failed validation.
	ManifestInvalidCode
)

// String returns the code's display name.
func (c Code) String() string {
	switch c {
	case FileNotFoundCode:
		return "FileNotFound"
	case ModuleNotFoundCode:
		return "ModuleNotFound"
	case LoadFailureCode:
		return "LoadFailure"
	case ManifestInvalidCode:
		return "ManifestInvalid"
	default:
		return "Unknown"
	}
}

// Error is the coded error used across the tool.
type Error struct {
	Code    Code     // classification
	Message string   // what went wrong
	Path    string   // file or module the error concerns
	Hints   []string // remediation suggestions shown to the user
	Cause   error    // underlying error
}

// Error implements the error interface. The cause is included so printing
// the error alone tells the whole story.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithHint appends one remediation suggestion.
func (e *Error) WithHint(hint string) *Error {
	e.Hints = append(e.Hints, hint)
	return e
}

// WithHints appends multiple remediation suggestions.
func (e *Error) WithHints(hints ...string) *Error {
	e.Hints = append(e.Hints, hints...)
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a coded error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf creates a coded error around a cause with a formatted message.
func Wrapf(code Code, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf extracts the code from an error chain, UnknownCode when none.
func CodeOf(err error) Code {
	var coded *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			coded = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if coded == nil {
		return UnknownCode
	}
	return coded.Code
}

// IsCode reports whether the error chain carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// HintsOf extracts the remediation hints from an error chain.
func HintsOf(err error) []string {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Hints
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}

// FileNotFound builds the error for a missing entry path.
func FileNotFound(path string) *Error {
	return Newf(FileNotFoundCode, "no such file or directory").
		WithHint("check that the path is spelled correctly and relative to the current directory").
		withPath(path)
}

// ModuleNotFound builds the error for a module name missing from a loaded
// file's exports. The available names are sorted into the hint so the user
// can pick the right one.
func ModuleNotFound(name, path string, available []string) *Error {
	err := Newf(ModuleNotFoundCode, "module %q not found", name).withPath(path)
	if len(available) == 0 {
		return err.WithHint("the file exports no modules; annotate a struct with routemap::module or add a [[module]] table")
	}
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return err.WithHint(fmt.Sprintf("available modules: %s", strings.Join(sorted, ", ")))
}

// LoadFailure builds the error for a file no strategy could load.
func LoadFailure(path string, cause error) *Error {
	return Wrap(LoadFailureCode, "unable to load module definitions", cause).
		WithHints(
			"point the tool at a Go file or package directory containing routemap:: annotations",
			"or describe the application in a .toml manifest and pass that instead",
		).
		withPath(path)
}

func (e *Error) withPath(path string) *Error {
	e.Path = path
	return e
}
