// Package logger builds the service's zerolog loggers and carries
// request-scoped correlation IDs through a context.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options selects the level and destination of the service log.
// It mirrors config.LoggingConfig so this package stays free of the config import.
type Options struct {
	Level     string
	Output    string // stdout (default), stderr, file
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
	Service   string
}

type contextKey string

const (
	loggerKey        contextKey = "logger"
	correlationIDKey contextKey = "correlation_id"
)

// New creates a JSON zerolog.Logger on stdout at the given level.
// Unknown levels fall back to info.
func New(level string) zerolog.Logger {
	return build(os.Stdout, level, "")
}

// NewFromOptions creates a logger whose writer is chosen by opts.Output:
//   - "file": rotating file via lumberjack
//   - "stderr": os.Stderr
//   - anything else: os.Stdout
func NewFromOptions(opts Options) zerolog.Logger {
	var writer io.Writer
	switch opts.Output {
	case "file":
		writer = NewFileWriter(FileConfig{
			Path:      opts.FilePath,
			MaxSizeMB: opts.MaxSizeMB,
			MaxFiles:  opts.MaxFiles,
		})
	case "stderr":
		writer = os.Stderr
	default:
		writer = os.Stdout
	}
	return build(writer, opts.Level, opts.Service)
}

func build(w io.Writer, level, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, log zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// WithCorrelationID stores a correlation ID in the context.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFromContext returns the correlation ID, or "" when unset.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the logger stored in ctx, tagged with the correlation
// ID when one is present. Without a stored logger an info-level stdout
// logger is returned.
func FromContext(ctx context.Context) zerolog.Logger {
	log, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		log = New("info")
	}
	if id := CorrelationIDFromContext(ctx); id != "" {
		log = log.With().Str("correlation_id", id).Logger()
	}
	return log
}

// NewCorrelationID generates a UUIDv4 correlation ID.
func NewCorrelationID() string {
	return uuid.New().String()
}
