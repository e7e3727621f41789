// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes the conversation metrics through the OTel meter with
// a Prometheus exporter; scrape them from /metrics.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	turnCounter     otelmetric.Int64Counter
	turnDuration    otelmetric.Float64Histogram
	transitionCount otelmetric.Int64Counter
	retryExhausted  otelmetric.Int64Counter
	sessionsEvicted otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	turnCounter, _ := meter.Int64Counter(
		"turns.processed",
		otelmetric.WithDescription("Number of conversational turns processed"),
	)
	turnDuration, _ := meter.Float64Histogram(
		"turns.duration",
		otelmetric.WithDescription("Turn processing duration"),
		otelmetric.WithUnit("ms"),
	)
	transitionCount, _ := meter.Int64Counter(
		"states.transitions",
		otelmetric.WithDescription("Number of conversation state transitions"),
	)
	retryExhausted, _ := meter.Int64Counter(
		"flow.retries_exhausted",
		otelmetric.WithDescription("Application attempts abandoned after the retry cap"),
	)
	sessionsEvicted, _ := meter.Int64Counter(
		"sessions.evicted",
		otelmetric.WithDescription("Sessions dropped by idle eviction"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		turnCounter:     turnCounter,
		turnDuration:    turnDuration,
		transitionCount: transitionCount,
		retryExhausted:  retryExhausted,
		sessionsEvicted: sessionsEvicted,
	}
}

func (o *Observability) RecordTurn(ctx context.Context, status string) {
	if o.turnCounter != nil {
		o.turnCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordTurnDuration(ctx context.Context, duration time.Duration, status string) {
	if o.turnDuration != nil {
		o.turnDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordTransition(ctx context.Context, from, to string) {
	if o.transitionCount != nil {
		o.transitionCount.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
		))
	}
}

func (o *Observability) RecordRetryExhausted(ctx context.Context, state string) {
	if o.retryExhausted != nil {
		o.retryExhausted.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("state", state),
		))
	}
}

func (o *Observability) RecordSessionsEvicted(ctx context.Context, count int) {
	if o.sessionsEvicted != nil && count > 0 {
		o.sessionsEvicted.Add(ctx, int64(count))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
