package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

// Shutdown flushes and stops whatever Start enabled.
type Shutdown func(ctx context.Context) error

// Start enables tracing and profiling as configured. component tags the data
// with the binary that produced it ("api", "syncer").
func Start(cfg config.Config, component string, logger *logging.Logger) (Shutdown, error) {
	if logger == nil {
		logger = logging.Default()
	}

	stopTracing := initUptrace(cfg, component, logger)
	stopProfiling, err := initPyroscope(cfg, component, logger)
	if err != nil {
		_ = stopTracing(context.Background())
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	return func(ctx context.Context) error {
		return errors.Join(stopProfiling(), stopTracing(ctx))
	}, nil
}
