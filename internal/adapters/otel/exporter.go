package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	serviceName    = "focusmetrics"
	serviceVersion = "1.0.0"
)

// Exporter exports session metrics to an OTEL Collector.
type Exporter struct {
	provider           *sdkmetric.MeterProvider
	meter              metric.Meter
	focusHist          metric.Float64Histogram
	efficiencyHist     metric.Float64Histogram
	durationHist       metric.Float64Histogram
	interruptionsTotal metric.Int64Counter
	sessionsTotal      metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	focusHist, err := meter.Float64Histogram(
		"focusmetrics_session_focus_score",
		metric.WithDescription("Final focus score per session"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating focus histogram: %w", err)
	}

	efficiencyHist, err := meter.Float64Histogram(
		"focusmetrics_session_efficiency_score",
		metric.WithDescription("Efficiency score per session"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating efficiency histogram: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"focusmetrics_session_duration_seconds",
		metric.WithDescription("Session duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	interruptionsTotal, err := meter.Int64Counter(
		"focusmetrics_interruptions_total",
		metric.WithDescription("Total interruptions across sessions"),
		metric.WithUnit("{interruption}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating interruptions counter: %w", err)
	}

	sessionsTotal, err := meter.Int64Counter(
		"focusmetrics_sessions_total",
		metric.WithDescription("Total number of finalized sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	return &Exporter{
		provider:           provider,
		meter:              meter,
		focusHist:          focusHist,
		efficiencyHist:     efficiencyHist,
		durationHist:       durationHist,
		interruptionsTotal: interruptionsTotal,
		sessionsTotal:      sessionsTotal,
	}, nil
}

// ExportSessionMetrics exports metrics for a finalized session.
func (e *Exporter) ExportSessionMetrics(ctx context.Context, m *ports.SessionMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("session_type", m.Type),
		attribute.Bool("completed", m.Completed),
	)

	e.focusHist.Record(ctx, m.FocusScore, opt)
	e.efficiencyHist.Record(ctx, m.EfficiencyScore, opt)
	e.durationHist.Record(ctx, m.DurationSeconds, opt)
	e.interruptionsTotal.Add(ctx, m.Interruptions, opt)
	e.sessionsTotal.Add(ctx, 1, opt)

	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
