// Package logger wraps log/slog behind a package-level default so every
// layer of prodcrawl (engine, fetchers, extractors, the Control API, the
// CLI) can log through the same handler without threading a *slog.Logger
// through every constructor.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Options configures the package-level logger. Zero value is text
// output at info level to stderr.
type Options struct {
	Debug  bool         // raise the level to slog.LevelDebug
	Quiet  bool         // drop to slog.LevelError only (used by `crawl --quiet`)
	JSON   bool         // slog.NewJSONHandler instead of text
	Output io.Writer    // defaults to os.Stderr
	Logger *slog.Logger // bypass Options entirely and install this logger directly
}

// Init installs a new default logger built from opts. Safe to call
// more than once; later calls replace the handler atomically.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Logger != nil {
		defaultLogger = opts.Logger
		return
	}

	level := slog.LevelInfo
	switch {
	case opts.Quiet:
		level = slog.LevelError
	case opts.Debug:
		level = slog.LevelDebug
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(output, handlerOpts)
	}
	defaultLogger = slog.New(handler)
}

// SetLogger installs l as the default logger directly, bypassing Init's
// Options entirely. Used by tests that want to capture output on a
// buffer without going through the Quiet/Debug/JSON switch.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs at debug level on the default logger.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs at info level on the default logger.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs at warn level on the default logger.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs at error level on the default logger.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns the default logger bound with args, for call sites that
// log more than once with the same fields attached.
func With(args ...any) *slog.Logger { return current().With(args...) }

// TaskLogger returns a logger pre-bound with task_id (and, if domain is
// non-empty, the simplified_domain too) so a DomainPipeline's many log
// call sites don't each have to repeat them. Grounded on the same
// task_id/domain pairing every engine log line already carries by hand.
func TaskLogger(taskID, domain string) *slog.Logger {
	if domain == "" {
		return With("task_id", taskID)
	}
	return With("task_id", taskID, "domain", domain)
}

// DebugContext logs at debug level, attaching ctx for handlers that read
// trace/request IDs out of it.
func DebugContext(ctx context.Context, msg string, args ...any) {
	current().DebugContext(ctx, msg, args...)
}

// InfoContext logs at info level, attaching ctx.
func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, args...)
}

// ErrorContext logs at error level, attaching ctx.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	current().ErrorContext(ctx, msg, args...)
}
