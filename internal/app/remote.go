package app

import (
	"github.com/riskibarqy/tournament-sync/external/startgg"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

// newRemoteClientFactory builds per-token clients that share one throttle and
// one circuit breaker, so request spacing and an open circuit hold across
// passes and tokens.
func newRemoteClientFactory(cfg config.Config, logger *logging.Logger) usecase.RemoteClientFactory {
	throttle := resilience.NewThrottle(cfg.StartggMinRequestInterval)
	clientCfg := startgg.ClientConfig{
		APIURL:          cfg.StartggAPIURL,
		Timeout:         cfg.StartggTimeout,
		MaxRetries:      cfg.StartggMaxRetries,
		RetryBackoff:    cfg.StartggRetryBackoff,
		MaxPages:        cfg.StartggMaxPages,
		PageSize:        cfg.StartggPageSize,
		EntrantPageSize: cfg.StartggEntrantPageSize,
		Logger:          logger,
		Throttle:        throttle,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StartggCircuitEnabled,
			FailureThreshold: cfg.StartggCircuitFailureCount,
			OpenTimeout:      cfg.StartggCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StartggCircuitHalfOpenMax,
		},
	}
	clientCfg.Breaker = startgg.NewCircuitBreaker(clientCfg.CircuitBreaker, logger)

	return func(token string) usecase.RemoteClient {
		perToken := clientCfg
		perToken.Token = token
		return startgg.NewClient(perToken)
	}
}
