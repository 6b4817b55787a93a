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

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	answerCounter  otelmetric.Int64Counter
	taskCounter    otelmetric.Int64Counter
	screenCounter  otelmetric.Int64Counter
	remoteDuration otelmetric.Float64Histogram
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

	answerCounter, _ := meter.Int64Counter(
		"onboarding.answers.submitted",
		otelmetric.WithDescription("Number of onboarding answers submitted"),
	)

	taskCounter, _ := meter.Int64Counter(
		"checklist.tasks.completed",
		otelmetric.WithDescription("Number of checklist tasks completed"),
	)

	screenCounter, _ := meter.Int64Counter(
		"flow.screen.transitions",
		otelmetric.WithDescription("Number of guided flow screen transitions"),
	)

	remoteDuration, _ := meter.Float64Histogram(
		"services.request.duration",
		otelmetric.WithDescription("Remote service request duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		answerCounter:  answerCounter,
		taskCounter:    taskCounter,
		screenCounter:  screenCounter,
		remoteDuration: remoteDuration,
	}
}

func (o *Observability) RecordAnswerSubmitted(ctx context.Context, status string) {
	if o.answerCounter != nil {
		o.answerCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordTaskCompleted(ctx context.Context, status string) {
	if o.taskCounter != nil {
		o.taskCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordScreenTransition(ctx context.Context, from, to string) {
	if o.screenCounter != nil {
		o.screenCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
		))
	}
}

func (o *Observability) RecordRemoteDuration(ctx context.Context, duration time.Duration, operation string) {
	if o.remoteDuration != nil {
		o.remoteDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
