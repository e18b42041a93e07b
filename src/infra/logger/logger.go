// Package logger provides structured logging using Go's standard library slog.
//
// There are two entry points, one per process kind:
//
//   - SetupAPI for the long-running HTTP service. Records carry the request id
//     found in the context, and gin's own output is funnelled into the same handler.
//   - SetupCLI for one-shot commands. No request context, optional verbose output,
//     string attributes are normalised to NFC.
//
// Both replace the process-wide default logger. They are not safe to call
// concurrently and must run once during startup, before any request is served.
//
// Usage:
//
//	log := logger.SetupAPI(cfg.Log, os.Stdout)
//	log.InfoContext(ctx, "server starting", "port", 8080)
package logger

import (
	"io"
	"log"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	"fastai/src/infra/config"
)

// Levels above slog.LevelError. CRITICAL and FATAL share a severity.
const (
	LevelCritical = slog.Level(12)
	LevelFatal    = LevelCritical
)

// SetupAPI configures logging for the HTTP service and returns the logger.
// JSON output is selected by cfg.JSONFormat; otherwise the console (text)
// renderer is used.
func SetupAPI(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   level == slog.LevelDebug,
		ReplaceAttr: replaceLevelName,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	lg := slog.New(&contextHandler{Handler: handler})
	slog.SetDefault(lg)
	redirectGin(lg)

	return lg
}

// SetupCLI configures logging for one-shot command-line runs.
// Verbose forces debug output regardless of the configured level.
func SetupCLI(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return normalizeString(replaceLevelName(groups, a))
		},
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	lg := slog.New(handler)
	slog.SetDefault(lg)

	return lg
}

// HTTPErrorLog returns a *log.Logger suitable for http.Server.ErrorLog that
// writes through the structured pipeline at error level.
func HTTPErrorLog(lg *slog.Logger) *log.Logger {
	return slog.NewLogLogger(lg.Handler(), slog.LevelError)
}

// parseLevel converts a configured log level to slog.Level.
// Defaults to Info if the level is not recognized.
func parseLevel(level config.LogLevel) slog.Level {
	switch config.LogLevel(strings.ToUpper(string(level))) {
	case config.LevelDebug:
		return slog.LevelDebug
	case config.LevelInfo:
		return slog.LevelInfo
	case config.LevelWarning, "WARN":
		return slog.LevelWarn
	case config.LevelError:
		return slog.LevelError
	case config.LevelCritical, config.LevelFatal:
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// replaceLevelName renders the levels above ERROR by name and WARN as WARNING.
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case lvl >= LevelCritical:
		a.Value = slog.StringValue("CRITICAL")
	case lvl == slog.LevelWarn:
		a.Value = slog.StringValue("WARNING")
	}
	return a
}

// normalizeString replaces invalid UTF-8 and normalises string values to NFC.
func normalizeString(a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := strings.ToValidUTF8(a.Value.String(), "\ufffd")
	a.Value = slog.StringValue(norm.NFC.String(s))
	return a
}

// WithComponent returns a new logger with a component name added.
// Useful for identifying which part of the application generated the log.
func WithComponent(lg *slog.Logger, component string) *slog.Logger {
	return lg.With("component", component)
}

// Stack returns the current goroutine's stack trace as a log attribute.
func Stack() slog.Attr {
	return slog.String("stack", string(debug.Stack()))
}

// redirectGin points gin's writers at the structured logger so nothing
// bypasses it. Must run before the gin engine is created.
func redirectGin(lg *slog.Logger) {
	gin.DisableConsoleColor()
	gin.DefaultWriter = &ginWriter{log: lg, level: slog.LevelDebug}
	gin.DefaultErrorWriter = &ginWriter{log: lg, level: slog.LevelError}
}
