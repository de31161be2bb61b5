// Package logger wraps log/slog with the conventions the forensic engine
// uses: a level parsed from configuration, JSON output when ENV=production
// (text otherwise), and per-analysis child loggers that stamp every record
// with the analysis id and advisory filename so one analysis's log lines
// can be traced through the concurrent layer fan-out.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the engine's structured logger. It embeds *slog.Logger, so the
// usual Debug/Info/Warn/Error key-value methods are available directly.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing to stdout at the given level.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter returns a Logger writing to w. Tests use this to capture
// and assert on output.
func NewWithWriter(level string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if os.Getenv("ENV") == "production" {
		return &Logger{slog.New(slog.NewJSONHandler(w, opts))}
	}
	return &Logger{slog.New(slog.NewTextHandler(w, opts))}
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a configuration string (case-insensitive, surrounding
// whitespace ignored) to a slog level. Anything unrecognized, including
// the empty string, falls back to Info.
func ParseLevel(level string) slog.Level {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// ForAnalysis returns a child logger that stamps every record with the
// analysis id and the advisory filename. The engine creates one per
// Analyze call and hands it to nothing else; layers stay pure functions.
func (l *Logger) ForAnalysis(id, filename string) *Logger {
	return &Logger{l.Logger.With(
		slog.String("analysis_id", id),
		slog.String("filename", filename),
	)}
}

// LayerScored records a single layer's outcome at Debug level. Emitting
// all four through the same helper keeps the record shape identical
// across layers, so a grep for "layer scored" reconstructs the full
// per-layer breakdown of any analysis.
func (l *Logger) LayerScored(layer string, score int, confidence float64) {
	l.Debug("layer scored",
		slog.String("layer", layer),
		slog.Int("score", score),
		slog.Float64("confidence", confidence),
	)
}

// Nop returns a Logger that discards everything. It is the default for
// engines constructed without an explicit logger.
func Nop() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}
