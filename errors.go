package hunklink

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel error kinds, per the failure taxonomy: Truncation and
// UnknownBlock abort decoding of the current file; UnsupportedSymbol
// and UndefinedSymbol are reported and the affected record is skipped;
// IO is fatal.
var (
	ErrEOF               = errors.New("unexpected end of hunk stream")
	ErrTruncation        = errors.New("truncated hunk block")
	ErrUnknownBlock      = errors.New("unknown hunk block type")
	ErrUnsupportedSymbol = errors.New("unsupported symbol type")
	ErrUndefinedSymbol   = errors.New("undefined symbol")
	ErrIO                = errors.New("i/o failure")
)

// Logger prints diagnostics to stderr, gating trace-level chatter on
// verbosity the way `if ld.verbose { fmt.Printf(...) }` lines do —
// generalized into one reusable type so the decoder, link engine,
// driver and inspector share one guard.
type Logger struct {
	verbose bool
	out     io.Writer
}

// NewLogger returns a Logger writing to stderr. Trace lines are
// printed only when verbose is true; warnings and errors always print.
func NewLogger(verbose bool) *Logger {
	return &Logger{verbose: verbose, out: os.Stderr}
}

func (l *Logger) Tracef(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	fmt.Fprintf(l.out, "hunklink: "+format+"\n", args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.out, "hunklink: warning: "+format+"\n", args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.out, "hunklink: error: "+format+"\n", args...)
}
