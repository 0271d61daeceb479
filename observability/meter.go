package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/mduppes/fairseq2/data"
	"github.com/mduppes/fairseq2/errors"
	"github.com/mduppes/fairseq2/logger"
	"github.com/mduppes/fairseq2/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetShortVersion(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds the metric instruments of a data pipeline.
type PipelineMetrics struct {
	recordsTotal       metric.Int64Counter
	checkpointDuration metric.Float64Histogram
	errorTotal         metric.Int64Counter
}

// NewPipelineMetrics creates pipeline metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	recordsTotal, err := meter.Int64Counter("pipeline.records.total",
		metric.WithDescription("Total number of records yielded by a pipeline"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.records.total counter: %w", err)
	}

	checkpointDuration, err := meter.Float64Histogram("pipeline.checkpoint.duration",
		metric.WithDescription("Duration of checkpoint saves in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.checkpoint.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.errors.total",
		metric.WithDescription("Total pipeline errors by code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.errors.total counter: %w", err)
	}

	return &PipelineMetrics{
		recordsTotal:       recordsTotal,
		checkpointDuration: checkpointDuration,
		errorTotal:         errorTotal,
	}, nil
}

// RecordYield counts one record yielded by the named pipeline.
func (m *PipelineMetrics) RecordYield(ctx context.Context, pipeline string) {
	m.recordsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordCheckpoint records a completed checkpoint save.
func (m *PipelineMetrics) RecordCheckpoint(ctx context.Context, pipeline string, duration time.Duration) {
	m.checkpointDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordError counts a pipeline error by its taxonomy code.
func (m *PipelineMetrics) RecordError(ctx context.Context, pipeline string, err error) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("code", string(errors.CodeOf(err))),
	))
}

// TapRecords returns a tap stage that counts every record flowing through
// the named pipeline.
func (m *PipelineMetrics) TapRecords(pipeline string) data.TapFunc {
	return func(ctx context.Context, _ data.Record) error {
		m.RecordYield(ctx, pipeline)
		return nil
	}
}
