// Package obslog provides the thin structured-logging wrapper shared by
// radical's out-of-core collaborators and cmd/radical.
//
// internal/sat and internal/proof never log: propagation and backtracking
// stay contractually silent. obslog exists for the one-time events around
// them — clause-DB construction, checker garbage collection, search
// progress — at the scale a solver core actually needs: no file rotation,
// no exporter, just a *slog.Logger with a component tag.
package obslog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var def = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Default returns the package-level logger used when a collaborator is not
// given one explicitly.
func Default() *slog.Logger { return def }

// SetDefault replaces the package-level logger, e.g. to raise the level or
// switch to JSON output from cmd/radical.
func SetDefault(l *slog.Logger) { def = l }

// With returns a logger tagged with the given component name, falling back
// to the package default when l is nil so collaborators can accept an
// optional *slog.Logger without a nil check at every call site.
func With(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = def
	}
	return l.With("component", component)
}

// NewText builds a logger writing leveled, human-readable lines, the shape
// cmd/radical uses for run progress.
func NewText(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a CLI --log-level flag value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("obslog: unknown log level %q", s)
	}
}
