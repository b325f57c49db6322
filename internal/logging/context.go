package logging

import "context"

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// TraceIDKey returns the context key under which WithContext looks up the
// trace ID:
//
//	ctx := context.WithValue(ctx, logging.TraceIDKey(), "trace-123")
func TraceIDKey() interface{} { return traceIDKey }

// SpanIDKey returns the context key under which WithContext looks up the
// span ID.
func SpanIDKey() interface{} { return spanIDKey }

// contextLogKeys lists the context values copied into every message
// logged through a WithContext logger.
var contextLogKeys = [...]contextKey{traceIDKey, spanIDKey}

// extractContextFields collects trace correlation fields from ctx.
// Returns nil when ctx is nil or carries none of them.
func extractContextFields(ctx context.Context) map[string]interface{} {
	if ctx == nil {
		return nil
	}

	var fields map[string]interface{}
	for _, key := range contextLogKeys {
		if v := ctx.Value(key); v != nil {
			if fields == nil {
				fields = make(map[string]interface{}, len(contextLogKeys))
			}
			fields[string(key)] = v
		}
	}
	return fields
}
