package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldConnectionID identifies one shell extension connection.
	FieldConnectionID = "connection_id"
	// FieldVerb is the protocol verb being handled.
	FieldVerb = "verb"
	// FieldPath is a local filesystem path.
	FieldPath = "path"
	// FieldFolder is a sync folder alias.
	FieldFolder = "folder"
)

type contextKey int

const (
	connectionIDKey contextKey = iota
	verbKey
)

// WithConnectionID tags ctx with the connection being served.
func WithConnectionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, connectionIDKey, id)
}

// WithVerb tags ctx with the protocol verb being handled.
func WithVerb(ctx context.Context, verb string) context.Context {
	return context.WithValue(ctx, verbKey, verb)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := ctx.Value(connectionIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldConnectionID, id))
	}
	if verb, ok := ctx.Value(verbKey).(string); ok && verb != "" {
		fields = append(fields, slog.String(FieldVerb, verb))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
