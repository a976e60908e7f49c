// Package logger provides the module's contextual logging. Loggers come from
// Get, which decorates the process-wide slog default with the subsystem, the
// host name, and any correlation keys carried by the context, such as the
// document id being validated or the batch run id.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hydrokit/modelparams/envutil"
	"github.com/hydrokit/modelparams/lazy"
	"github.com/hydrokit/modelparams/shutdown"
)

// DefaultSubsystem names log records that have no more specific origin.
const DefaultSubsystem = "modelparams"

// subsystem holds the default subsystem name set by ConfigureLogging.
// Using atomic.Value to ensure thread-safe reads and writes.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes calls to ConfigureLoggingWithOptions, which mutate
// process-wide state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// Unexported custom type for context keys. This avoids collisions with other
// packages that might be using the same string values for their own keys.
type contextKey string

// Fatal logs an error message, runs the registered shutdown hooks and exits
// the process.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)

	shutdown.Shutdown()

	time.Sleep(time.Second)

	os.Exit(1)
}

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer

	// Bridge is an additional handler that receives every record alongside
	// the console handler, typically the OpenTelemetry log bridge. See
	// AttachBridge.
	Bridge slog.Handler
}

// currentOptions remembers the options most recently applied by
// ConfigureLoggingWithOptions so that AttachBridge can reinstall the logger
// without the caller restating them.
var currentOptions atomic.Value //nolint:gochecknoglobals

// ConfigureLoggingWithOptions configures logging for the process and returns
// the default logger. This function is thread-safe but modifies global state,
// so concurrent calls will be serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	var handler slog.Handler

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.Subsystem == "" {
		opts.Subsystem = DefaultSubsystem
	}

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	if opts.Bridge != nil {
		handler = newTeeHandler(handler, opts.Bridge)
	}

	// Expand attributes carried by annotated errors (see AnnotateError).
	handler = &slogErrorLogger{inner: handler}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Point the legacy log package at the same handler. We won't be using it
	// directly, but third-party packages might.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)
	currentOptions.Store(opts)

	return logger
}

// AttachBridge reinstalls the default logger with an additional handler that
// receives every record, such as the OpenTelemetry log bridge. The console
// configuration applied by the last ConfigureLogging call is preserved.
func AttachBridge(bridge slog.Handler) *slog.Logger {
	opts, _ := currentOptions.Load().(Options)
	opts.Bridge = bridge

	return ConfigureLoggingWithOptions(opts)
}

// Option is a functional option for configuring logging via ConfigureLogging.
type Option func(*Options)

// ErrInvalidLogOutput is returned when an unknown log output destination is
// named in the environment.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ConfigureLogging configures logging from the environment and returns the
// default logger. It reads MODELPARAMS_LOG_JSON, MODELPARAMS_LOG_LEVEL,
// MODELPARAMS_LEGACY_LOG_LEVEL and MODELPARAMS_LOG_OUTPUT, then applies the
// given options on top.
func ConfigureLogging(ctx context.Context, app string, opts ...Option) *slog.Logger {
	// Default log format is text
	logJSON := envutil.BoolCtx(ctx, "MODELPARAMS_LOG_JSON", envutil.Default(false)).ValueOrFatal()

	// Default log level is info
	minLevel := envutil.SlogLevelCtx(ctx, "MODELPARAMS_LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()

	// The legacy log package has no levels of its own, so records forwarded
	// from it are logged at this fixed level.
	legacyLevel := envutil.SlogLevelCtx(ctx, "MODELPARAMS_LEGACY_LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()

	output := envutil.Map(envutil.StringCtx(ctx, "MODELPARAMS_LOG_OUTPUT"), func(outName string) (*os.File, error) {
		switch outName {
		case "stdout":
			return os.Stdout, nil
		case "stderr":
			return os.Stderr, nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, outName)
		}
	}).WithDefault(os.Stdout).ValueOrFatal()

	options := Options{
		Subsystem:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// WithMuted adds a muted flag to the context. When muted is true, loggers
// derived from this context discard all output. Useful for high-frequency
// paths, such as revalidating documents already known to the memo cache,
// that would otherwise flood the logs.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("mute"), muted)
}

// isMuted checks if the context has the muted flag set to true.
// Returns false if the context is nil or if the flag is not set.
func isMuted(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	val := ctx.Value(contextKey("mute"))
	if val == nil {
		return false
	}

	muted, ok := val.(bool)

	return ok && muted
}

// WithSubsystem overrides the subsystem for loggers derived from this
// context. The default subsystem is set by ConfigureLogging.
func WithSubsystem(ctx context.Context, subsystem string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), subsystem)
}

// GetSubsystem returns the subsystem from the context. If the subsystem is
// not provided, the default subsystem will be used.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	// Check for a subsystem override.
	sub := ctx.Value(contextKey("subsystem"))
	if sub != nil {
		val, ok := sub.(string)
		if ok {
			return val
		}
	}

	// Return the default subsystem value (thread-safe read)
	if defaultSub := subsystem.Load(); defaultSub != nil {
		if val, ok := defaultSub.(string); ok {
			return val
		}
	}

	return DefaultSubsystem
}

// WithDocumentId adds a document id to the context. The id is the short
// fingerprint of the document being validated, so every record produced
// while working on that document can be correlated.
func WithDocumentId(ctx context.Context, documentId string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("document_id"), documentId)
}

// GetDocumentId returns the document id from the context. If the document id
// is not provided, an empty string will be returned, along with a false
// value. Otherwise, the document id will be returned along with a true value.
func GetDocumentId(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	id := ctx.Value(contextKey("document_id"))
	if id != nil {
		val, ok := id.(string)
		if ok {
			return val, true
		}
	}

	return "", false
}

// WithRunId adds a batch run id to the context.
func WithRunId(ctx context.Context, runId string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("run_id"), runId)
}

// GetRunId returns the batch run id from the context. If the run id is not
// provided, an empty string will be returned, along with a false value.
// Otherwise, the run id will be returned along with a true value.
func GetRunId(ctx context.Context) (string, bool) { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	runId := ctx.Value(contextKey("run_id"))
	if runId == nil {
		return "", false
	}

	val, ok := runId.(string)
	if !ok {
		return "", false
	}

	return val, true
}

// hostname will hold, in a k8s deployment context, the pod name.
// For local development it will be the local machine name.
// nolint:gochecknoglobals
var hostname = lazy.New[string](func() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// GetHostname returns the host name (or the pod name when deployed on k8s).
func GetHostname() string {
	return hostname.Get()
}

// getRealContext extracts the first non-nil context from a variadic list.
// If no context is provided or all are nil, it returns context.Background().
func getRealContext(ctx ...context.Context) context.Context {
	var realCtx context.Context

	// Honestly we only care if there's zero or one contexts.
	// If there's more than one, we'll just use the first one.
	for _, c := range ctx {
		if c != nil {
			realCtx = c //nolint:fatcontext

			break
		}
	}

	if realCtx == nil {
		// No context provided, so we'll just use a sane default
		realCtx = context.Background()
	}

	return realCtx
}

// nullHandler is a slog.Handler that discards all output. It backs the muted
// logging feature: Enabled always reports false and the remaining methods
// are no-ops.
type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n *nullHandler) WithGroup(_ string) slog.Handler {
	return n
}

// nullLogger is returned by getBaseLogger when the context is muted. Callers
// can keep logging without producing any output.
var nullLogger = slog.New(&nullHandler{})

// getBaseLogger returns a logger with the subsystem and host already set.
func getBaseLogger(ctx context.Context) *slog.Logger {
	// If the logger is muted, we still return a logger,
	// but the logger is incapable of outputting anything.
	if isMuted(ctx) {
		return nullLogger
	}

	logger := slog.Default()

	logger = logger.With(
		"subsystem", GetSubsystem(ctx),
		"host", hostname.Get())

	// Check for key-values to add to the logger.
	vals := getValues(ctx)
	if vals != nil {
		logger = logger.With(vals...)
	}

	return logger
}

// Get returns a logger. If a context is provided, correlation keys embedded
// in it are attached to every record the logger produces. Use WithDocumentId
// and WithRunId to embed them.
//
//nolint:contextcheck
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := getRealContext(ctx...)
	logger := getBaseLogger(realCtx)

	if documentId, ok := GetDocumentId(realCtx); ok {
		logger = logger.With("document_id", documentId)
	}

	if runId, ok := GetRunId(realCtx); ok {
		logger = logger.With("run_id", runId)
	}

	return logger
}

// With returns a new context with the given values added.
// The values are added to the logger automatically.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		// Corner case, don't bother creating a new context.
		return ctx
	}

	vals := append(getValues(ctx), values...)

	return context.WithValue(ctx, contextKey("loggerValues"), vals)
}

// getValues retrieves logger values from the context that were added via
// With. Returns nil if no values are present in the context.
func getValues(ctx context.Context) []any { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	// Check for a value override.
	vals := ctx.Value(contextKey("loggerValues"))
	if vals != nil {
		val, ok := vals.([]any)
		if ok {
			return val
		}

		return nil
	}

	return nil
}
