package middleware

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelCollector adapts an OpenTelemetry meter to the MetricsCollector
// interface. Instruments are created lazily per metric name and reused.
type OTelCollector struct {
	meter metric.Meter

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
}

// NewOTelCollector creates a collector backed by the global meter
// provider.
func NewOTelCollector(meterName string) *OTelCollector {
	return &OTelCollector{
		meter:      otel.GetMeterProvider().Meter(meterName),
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

var _ MetricsCollector = (*OTelCollector)(nil)

// IncrementCounter increments the named counter.
func (c *OTelCollector) IncrementCounter(ctx context.Context, name string, value int64, labels map[string]string) {
	c.mu.Lock()
	counter, ok := c.counters[name]
	if !ok {
		var err error
		counter, err = c.meter.Int64Counter(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.counters[name] = counter
	}
	c.mu.Unlock()

	counter.Add(ctx, value, metric.WithAttributes(labelAttributes(labels)...))
}

// RecordDuration records the duration in seconds on the named histogram.
func (c *OTelCollector) RecordDuration(ctx context.Context, name string, duration time.Duration, labels map[string]string) {
	c.RecordHistogram(ctx, name, duration.Seconds(), labels)
}

// RecordGauge records the named gauge value.
func (c *OTelCollector) RecordGauge(ctx context.Context, name string, value float64, labels map[string]string) {
	c.mu.Lock()
	gauge, ok := c.gauges[name]
	if !ok {
		var err error
		gauge, err = c.meter.Float64Gauge(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.gauges[name] = gauge
	}
	c.mu.Unlock()

	gauge.Record(ctx, value, metric.WithAttributes(labelAttributes(labels)...))
}

// RecordHistogram records a sample on the named histogram.
func (c *OTelCollector) RecordHistogram(ctx context.Context, name string, value float64, labels map[string]string) {
	c.mu.Lock()
	histogram, ok := c.histograms[name]
	if !ok {
		var err error
		histogram, err = c.meter.Float64Histogram(name)
		if err != nil {
			c.mu.Unlock()
			return
		}
		c.histograms[name] = histogram
	}
	c.mu.Unlock()

	histogram.Record(ctx, value, metric.WithAttributes(labelAttributes(labels)...))
}

func labelAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		attrs = append(attrs, attribute.String(k, v))
	}
	return attrs
}
