package exporter

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Status code attribute keys, current and legacy HTTP semantic conventions.
const (
	statusCodeKey       = "http.response.status_code"
	legacyStatusCodeKey = "http.status_code"
)

var _ sdktrace.SpanExporter = (*SpanLogger)(nil)

// SpanLogger is a span exporter that writes one log line per finished server
// span: its name, duration and response status. Spans of other kinds are
// only logged at debug level.
type SpanLogger struct {
	logger zerolog.Logger
}

func NewSpanLogger(logger zerolog.Logger) *SpanLogger {
	return &SpanLogger{logger: logger}
}

func (e *SpanLogger) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		switch span.SpanKind() {
		case trace.SpanKindServer:
			e.processServerSpan(span)
		default:
			e.logger.Debug().
				Str("span", span.Name()).
				Str("kind", span.SpanKind().String()).
				Dur("duration", span.EndTime().Sub(span.StartTime())).
				Msg("span finished")
		}
	}
	return nil
}

func (e *SpanLogger) Shutdown(ctx context.Context) error {
	e.logger.Debug().Msg("span logger shut down")
	return nil
}

func (e *SpanLogger) processServerSpan(span sdktrace.ReadOnlySpan) {
	duration := span.EndTime().Sub(span.StartTime())

	var statusCode int
	for _, attr := range span.Attributes() {
		switch string(attr.Key) {
		case statusCodeKey, legacyStatusCodeKey:
			statusCode = int(attr.Value.AsInt64())
		}
	}

	hasError := span.Status().Code == codes.Error || statusCode >= 500

	event := e.logger.Info()
	if hasError {
		event = e.logger.Warn().Str("error", span.Status().Description)
	}
	event.
		Str("span", span.Name()).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Int("status", statusCode).
		Dur("duration", duration.Round(time.Microsecond)).
		Msg("request served")
}
