package observability

import (
	"go.uber.org/fx"

	"github.com/cdrmed/cdrmed/internal/config"
	"github.com/cdrmed/cdrmed/internal/observability/metrics"
)

var Module = fx.Module("observability",
	fx.Provide(
		newMetricsConfig,
		metrics.NewProvider,
		metrics.New,
	),
)

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.Metrics.Enabled,
		ExporterEndpoint: cfg.Metrics.Endpoint,
		ExporterProtocol: cfg.Metrics.Exporter,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}
