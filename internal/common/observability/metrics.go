package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"tennis-booking/internal/common/logger"
)

// Observability owns the OpenTelemetry meter provider. Its instruments are
// exported through the default Prometheus registry next to the promauto
// metrics, so /metrics serves both.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	modelCalls     otelmetric.Int64Counter
	modelLatency   otelmetric.Float64Histogram
	interpretCount otelmetric.Int64Counter
}

func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	modelCalls, _ := meter.Int64Counter(
		"booking.model.calls",
		otelmetric.WithDescription("Number of language model completions"),
	)

	modelLatency, _ := meter.Float64Histogram(
		"booking.model.latency",
		otelmetric.WithDescription("Language model completion latency"),
		otelmetric.WithUnit("ms"),
	)

	interpretCount, _ := meter.Int64Counter(
		"booking.interpretations",
		otelmetric.WithDescription("Number of interpreted booking requests"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		modelCalls:     modelCalls,
		modelLatency:   modelLatency,
		interpretCount: interpretCount,
	}
}

// RecordModelCall is safe to call on a zero Observability.
func (o *Observability) RecordModelCall(ctx context.Context, provider string, duration time.Duration, status string) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	)
	if o.modelCalls != nil {
		o.modelCalls.Add(ctx, 1, attrs)
	}
	if o.modelLatency != nil {
		o.modelLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordInterpretation(ctx context.Context, outcome string) {
	if o == nil || o.interpretCount == nil {
		return
	}
	o.interpretCount.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
