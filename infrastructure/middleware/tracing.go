package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/tabletop/domain/command"
	"github.com/felixgeelhaar/tabletop/domain/middleware"
)

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	// TracerName is the name of the tracer to use.
	TracerName string

	// Tracer is a custom tracer to use. If nil, a new tracer is created.
	Tracer trace.Tracer

	// RecordRaw determines if the raw command line is recorded as a span attribute.
	RecordRaw bool

	// MaxAttributeSize limits the size of recorded attributes.
	MaxAttributeSize int

	// SpanNamePrefix is prepended to span names.
	SpanNamePrefix string

	// AdditionalAttributes are added to all spans.
	AdditionalAttributes []attribute.KeyValue
}

// DefaultTracingConfig returns a sensible default configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName:       "tabletop",
		RecordRaw:        true,
		MaxAttributeSize: 1024,
		SpanNamePrefix:   "command.",
	}
}

// Tracing returns middleware that creates OpenTelemetry spans for
// command dispatch.
func Tracing(cfg TracingConfig) middleware.Middleware {
	tracer := cfg.Tracer
	if tracer == nil {
		tracerName := cfg.TracerName
		if tracerName == "" {
			tracerName = "tabletop"
		}
		tracer = otel.Tracer(tracerName)
	}

	maxSize := cfg.MaxAttributeSize
	if maxSize <= 0 {
		maxSize = 1024
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (command.Result, error) {
			spanName := execCtx.Command.Name()
			if cfg.SpanNamePrefix != "" {
				spanName = cfg.SpanNamePrefix + spanName
			}

			ctx, span := tracer.Start(ctx, spanName,
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			attrs := []attribute.KeyValue{
				attribute.String("agent.id", execCtx.AgentID),
				attribute.String("agent.signature", execCtx.Signature),
				attribute.String("command.name", execCtx.Command.Name()),
			}

			if cfg.RecordRaw && execCtx.Raw != "" {
				attrs = append(attrs, attribute.String("command.raw", truncate(execCtx.Raw, maxSize)))
			}

			attrs = append(attrs, cfg.AdditionalAttributes...)
			span.SetAttributes(attrs...)

			result, err := next(ctx, execCtx)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
				span.SetAttributes(
					attribute.String("command.result", string(result.Kind)),
					attribute.Bool("command.cached", result.Cached),
				)
				if result.IsError() {
					span.SetAttributes(attribute.String("command.error_kind", string(result.ErrorKind)))
				}
			}

			return result, err
		}
	}
}

// TracingOption configures the tracing middleware.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets a custom tracer.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithRawRecording enables or disables raw command recording.
func WithRawRecording(enabled bool) TracingOption {
	return func(c *TracingConfig) {
		c.RecordRaw = enabled
	}
}

// WithSpanNamePrefix sets the span name prefix.
func WithSpanNamePrefix(prefix string) TracingOption {
	return func(c *TracingConfig) {
		c.SpanNamePrefix = prefix
	}
}

// WithAdditionalAttributes adds extra attributes to all spans.
func WithAdditionalAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AdditionalAttributes = append(c.AdditionalAttributes, attrs...)
	}
}

// NewTracing creates tracing middleware with the given options.
func NewTracing(opts ...TracingOption) middleware.Middleware {
	cfg := DefaultTracingConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Tracing(cfg)
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// truncate truncates a string to the specified length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "...[truncated]"
}
