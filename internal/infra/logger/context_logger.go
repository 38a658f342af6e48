package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	// Business context keys, following OpenTelemetry semantic conventions
	// with a 'desk.' prefix.
	SignalIDKey  ContextKey = "desk.signal.id"
	InsightIDKey ContextKey = "desk.insight.id"
	JobNameKey   ContextKey = "desk.job.name"
)

// ContextLogger provides context-aware logging with Signal Desk business context.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger creates a new context-aware logger.
func NewContextLogger(serviceName string) *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger:      slog.New(handler),
		serviceName: serviceName,
	}
}

// WithContext returns a logger with context values extracted and added as fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if signalID := ctx.Value(SignalIDKey); signalID != nil {
		fields = append(fields, string(SignalIDKey), signalID)
	}
	if insightID := ctx.Value(InsightIDKey); insightID != nil {
		fields = append(fields, string(InsightIDKey), insightID)
	}
	if job := ctx.Value(JobNameKey); job != nil {
		fields = append(fields, string(JobNameKey), job)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithSignalID adds a signal ID to context for observability.
func WithSignalID(ctx context.Context, signalID string) context.Context {
	return context.WithValue(ctx, SignalIDKey, signalID)
}

// WithInsightID adds an insight ID to context for observability.
func WithInsightID(ctx context.Context, insightID string) context.Context {
	return context.WithValue(ctx, InsightIDKey, insightID)
}

// WithJobName adds the webhook job name to context for observability.
func WithJobName(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, JobNameKey, job)
}
