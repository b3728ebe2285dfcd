// Package cli provides the command-line interface for appcommit.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// selectLevel maps the verbosity flags to a log level.
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// InitLogger creates and configures a zerolog.Logger based on verbosity
// flags. Output goes to stderr so the commit URL on stdout stays clean for
// scripting.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	return InitLoggerWithWriter(verbose, quiet, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	})
}

// InitLoggerWithWriter creates and configures a zerolog.Logger with a custom
// writer. This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
}
