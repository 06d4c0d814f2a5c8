// Package logging builds the structured slog logger used by the CLI and the
// HTTP endpoint, and adapts it to the domain logger interface.
//
//	logger := logging.New("info", "json", os.Stderr)
//	resolver := services.NewResolverService(logging.NewAdapter(logger), opts)
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/interfaces"
)

// New creates a configured *slog.Logger.
//
// The level parameter sets the minimum log level. Valid values are "debug",
// "info", "warn", and "error". Unrecognized values default to info.
//
// The format parameter selects the output handler. "text" uses
// slog.NewTextHandler; all other values (including "json") use
// slog.NewJSONHandler.
func New(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// parseLevel converts a level string to slog.Level.
// Unrecognized values default to slog.LevelInfo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Adapter implements interfaces.Logger on top of *slog.Logger
type Adapter struct {
	logger *slog.Logger
}

// NewAdapter wraps a slog logger for domain services
func NewAdapter(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{logger: logger}
}

// Debug logs debug-level messages
func (a *Adapter) Debug(msg string, fields ...interfaces.Field) {
	a.logger.Debug(msg, attrs(fields)...)
}

// Info logs informational messages
func (a *Adapter) Info(msg string, fields ...interfaces.Field) {
	a.logger.Info(msg, attrs(fields)...)
}

// Warn logs warning messages
func (a *Adapter) Warn(msg string, fields ...interfaces.Field) {
	a.logger.Warn(msg, attrs(fields)...)
}

// Error logs error messages
func (a *Adapter) Error(msg string, fields ...interfaces.Field) {
	a.logger.Error(msg, attrs(fields)...)
}

func attrs(fields []interfaces.Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}
