package cli

import (
	"fmt"

	"github.com/toyz/routemap/internal/errors"
)

// ExitError signals a non-zero exit code without forcing os.Exit inside
// RunE handlers, so tests can run the command and inspect the failure.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the underlying message, or the bare status when there is
// no underlying error.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps an error to the process exit code. Each fatal class gets
// its own code so scripts can tell a bad path from a bad module name.
func exitCodeFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.FileNotFoundCode:
		return 2
	case errors.ModuleNotFoundCode:
		return 3
	case errors.LoadFailureCode, errors.ManifestInvalidCode:
		return 4
	default:
		return 1
	}
}
