package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ratedCalls       metric.Int64Counter
	quarantinedCalls metric.Int64Counter
	ratingDuration   metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the rating metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "cdrmed"
	}
	meter := provider.Meter(name)

	ratedCalls, err := meter.Int64Counter("cdrmed_rated_calls_total")
	if err != nil {
		return nil, err
	}
	quarantinedCalls, err := meter.Int64Counter("cdrmed_quarantined_calls_total")
	if err != nil {
		return nil, err
	}
	ratingDuration, err := meter.Float64Histogram("cdrmed_rating_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ratedCalls:       ratedCalls,
		quarantinedCalls: quarantinedCalls,
		ratingDuration:   ratingDuration,
	}, nil
}

// RecordRated increments accepted disposition counts.
func (m *Metrics) RecordRated(ctx context.Context, telephonyTypeID int64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.Int64("telephony_type", telephonyTypeID)}
	m.ratedCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordQuarantined increments quarantine disposition counts.
func (m *Metrics) RecordQuarantined(ctx context.Context, step string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("step", strings.TrimSpace(step))}
	m.quarantinedCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRatingDuration observes one event's end-to-end rating time.
func (m *Metrics) RecordRatingDuration(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.ratingDuration.Record(ctx, seconds)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
