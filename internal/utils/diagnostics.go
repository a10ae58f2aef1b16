// Package utils provides shared plumbing for the routemap toolchain:
// diagnostic output, cached file parsing, and go.mod resolution.
package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel controls how much the tool reports while it works.
type DiagnosticLevel int

const (
	// DiagnosticSilent suppresses everything, including errors.
	DiagnosticSilent DiagnosticLevel = iota
	// DiagnosticError reports only errors.
	DiagnosticError
	// DiagnosticWarn reports errors and warnings.
	DiagnosticWarn
	// DiagnosticInfo is the default level: errors, warnings and progress.
	DiagnosticInfo
	// DiagnosticVerbose adds per-file and per-module detail.
	DiagnosticVerbose
	// DiagnosticDebug adds internal tracing.
	DiagnosticDebug
)

// DiagnosticSystem writes leveled, optionally colored messages to a single
// stream. The route report itself goes to stdout, so every diagnostic is
// expected to target stderr.
type DiagnosticSystem struct {
	level     DiagnosticLevel
	out       io.Writer
	useColors bool
	showTime  bool

	errorColor   *color.Color
	warnColor    *color.Color
	infoColor    *color.Color
	successColor *color.Color
	mutedColor   *color.Color
}

// NewDiagnosticSystem creates a diagnostic system at the given level writing
// to out. A nil out falls back to stderr.
func NewDiagnosticSystem(level DiagnosticLevel, out io.Writer) *DiagnosticSystem {
	if out == nil {
		out = os.Stderr
	}
	return &DiagnosticSystem{
		level:        level,
		out:          out,
		useColors:    shouldUseColors(),
		showTime:     level >= DiagnosticVerbose,
		errorColor:   color.New(color.FgRed, color.Bold),
		warnColor:    color.New(color.FgYellow),
		infoColor:    color.New(color.FgCyan),
		successColor: color.New(color.FgGreen),
		mutedColor:   color.New(color.FgHiBlack),
	}
}

// shouldUseColors honors the conventional environment switches.
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// DisableColors turns off color output regardless of environment.
func (ds *DiagnosticSystem) DisableColors() {
	ds.useColors = false
}

// Level reports the configured diagnostic level.
func (ds *DiagnosticSystem) Level() DiagnosticLevel {
	return ds.level
}

// Error reports a failure. Shown at DiagnosticError and above.
func (ds *DiagnosticSystem) Error(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticError, ds.errorColor, "ERROR", format, args...)
}

// Warn reports a recoverable problem. Shown at DiagnosticWarn and above.
func (ds *DiagnosticSystem) Warn(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticWarn, ds.warnColor, "WARN", format, args...)
}

// Info reports progress. Shown at DiagnosticInfo and above.
func (ds *DiagnosticSystem) Info(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticInfo, ds.infoColor, "INFO", format, args...)
}

// Success reports a completed step. Shown at DiagnosticInfo and above.
func (ds *DiagnosticSystem) Success(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticInfo, ds.successColor, "OK", format, args...)
}

// Verbose reports per-item detail. Shown at DiagnosticVerbose and above.
func (ds *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticVerbose, ds.mutedColor, "VERBOSE", format, args...)
}

// Debug reports internal tracing. Shown only at DiagnosticDebug.
func (ds *DiagnosticSystem) Debug(format string, args ...interface{}) {
	ds.writeMessage(DiagnosticDebug, ds.mutedColor, "DEBUG", format, args...)
}

// Hints prints remediation hints as an indented bullet list under the most
// recent error. Hints follow the error level so they vanish together.
func (ds *DiagnosticSystem) Hints(hints []string) {
	if ds.level < DiagnosticError {
		return
	}
	for _, hint := range hints {
		bullet := "  - " + hint
		if ds.useColors {
			bullet = ds.mutedColor.Sprint(bullet)
		}
		fmt.Fprintln(ds.out, bullet)
	}
}

func (ds *DiagnosticSystem) writeMessage(min DiagnosticLevel, c *color.Color, tag, format string, args ...interface{}) {
	if ds.level < min {
		return
	}

	message := fmt.Sprintf(format, args...)
	prefix := fmt.Sprintf("[%s]", tag)
	if ds.useColors {
		prefix = c.Sprint(prefix)
	}

	if ds.showTime {
		stamp := time.Now().Format("15:04:05.000")
		if ds.useColors {
			stamp = ds.mutedColor.Sprint(stamp)
		}
		fmt.Fprintf(ds.out, "%s %s %s\n", stamp, prefix, message)
		return
	}
	fmt.Fprintf(ds.out, "%s %s\n", prefix, message)
}
