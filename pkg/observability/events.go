package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventMetrics records background event handling.
type EventMetrics struct {
	handled  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewEventMetrics registers the worker instruments on mp.
func NewEventMetrics(mp metric.MeterProvider) (*EventMetrics, error) {
	meter := mp.Meter(instrumentationName)

	handled, err := meter.Int64Counter(
		"clinica_events_handled",
		metric.WithDescription("Domain events consumed by background workers"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"clinica_event_handle_duration_ms",
		metric.WithDescription("Time spent handling one domain event"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	return &EventMetrics{handled: handled, duration: duration}, nil
}

// Observe records one handled event. outcome is "ok" or "error".
func (m *EventMetrics) Observe(ctx context.Context, event string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("outcome", outcome),
	)
	m.handled.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
}
