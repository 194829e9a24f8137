package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// initUptrace installs the global OpenTelemetry providers. Without a DSN the
// globals stay no-op and so does the returned shutdown.
func initUptrace(cfg config.Config, component string, logger *logging.Logger) func(context.Context) error {
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled)
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(attribute.String("service.component", component)),
	)
	logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "component", component, "environment", cfg.AppEnv)

	return uptrace.Shutdown
}
