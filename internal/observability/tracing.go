package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-insights/internal/config"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

// StartTracing installs the global OpenTelemetry providers and exports to
// Uptrace. The returned func flushes pending spans.
func StartTracing(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("tracing")

	if !cfg.UptraceEnabled || cfg.UptraceDSN == "" {
		logger.Info("tracing off", "uptrace_enabled", cfg.UptraceEnabled, "dsn_set", cfg.UptraceDSN != "")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttrs(cfg)...),
	)

	logger.Info("exporting traces to uptrace", "season", cfg.SleeperSeason, "upstream", cfg.SleeperBaseURL)
	return uptrace.Shutdown, nil
}

// resourceAttrs describes which upstream and season this process aggregates.
func resourceAttrs(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("service.namespace", "fantasy"),
		attribute.String("fantasy.upstream", cfg.SleeperBaseURL),
		attribute.Int("fantasy.aggregator_workers", cfg.AggregatorMaxWorkers),
	}
	if cfg.SleeperSeason != "" {
		attrs = append(attrs, attribute.String("fantasy.season", cfg.SleeperSeason))
	}
	return attrs
}
