package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("STARTGG_TIMEOUT", "")
	t.Setenv("STARTGG_MIN_REQUEST_INTERVAL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("SYNC_RETENTION_DAYS", "")
	t.Setenv("STARTGG_ENCRYPTION_KEY_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageBackend != StoragePostgres {
		t.Fatalf("unexpected storage backend: %q", cfg.StorageBackend)
	}
	if cfg.StartggTimeout != 10*time.Second {
		t.Fatalf("unexpected startgg timeout: %s", cfg.StartggTimeout)
	}
	if cfg.StartggMinRequestInterval != 100*time.Millisecond {
		t.Fatalf("unexpected request interval: %s", cfg.StartggMinRequestInterval)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.SyncRetentionDays != 90 {
		t.Fatalf("unexpected retention days: %d", cfg.SyncRetentionDays)
	}
	if cfg.EncryptionKeyFile != "config/encryption.key" {
		t.Fatalf("unexpected key file: %q", cfg.EncryptionKeyFile)
	}
	if !cfg.DBDisablePreparedBinary {
		t.Fatalf("expected DBDisablePreparedBinary=true by default")
	}
}

func TestLoad_StorageBackendValidation(t *testing.T) {
	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_BACKEND", "sqlite")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_BACKEND")
		}
	})

	t.Run("memory accepted case-insensitively", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("STORAGE_BACKEND", " Memory ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageBackend != StorageMemory {
			t.Fatalf("unexpected storage backend: %q", cfg.StorageBackend)
		}
	})
}

func TestLoad_StartggParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STARTGG_API_URL", "http://localhost:9999/gql")
	t.Setenv("STARTGG_TIMEOUT", "3s")
	t.Setenv("STARTGG_MAX_RETRIES", "0")
	t.Setenv("STARTGG_MIN_REQUEST_INTERVAL", "0s")
	t.Setenv("STARTGG_PAGE_SIZE", "40")
	t.Setenv("STARTGG_ENTRANT_PAGE_SIZE", "")
	t.Setenv("STARTGG_CIRCUIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StartggAPIURL != "http://localhost:9999/gql" {
		t.Fatalf("unexpected api url: %q", cfg.StartggAPIURL)
	}
	if cfg.StartggTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.StartggTimeout)
	}
	if cfg.StartggMaxRetries != 0 {
		t.Fatalf("unexpected max retries: %d", cfg.StartggMaxRetries)
	}
	if cfg.StartggMinRequestInterval != 0 {
		t.Fatalf("expected zero interval, got %s", cfg.StartggMinRequestInterval)
	}
	if cfg.StartggPageSize != 40 {
		t.Fatalf("unexpected page size: %d", cfg.StartggPageSize)
	}
	if cfg.StartggEntrantPageSize != 50 {
		t.Fatalf("entrant page size should keep its own default, got %d", cfg.StartggEntrantPageSize)
	}
	if cfg.StartggCircuitEnabled {
		t.Fatalf("expected circuit disabled")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative retries", key: "STARTGG_MAX_RETRIES", value: "-1"},
		{name: "page size above api limit", key: "STARTGG_PAGE_SIZE", value: "101"},
		{name: "zero entrant page size", key: "STARTGG_ENTRANT_PAGE_SIZE", value: "0"},
		{name: "zero timeout", key: "STARTGG_TIMEOUT", value: "0s"},
		{name: "negative interval", key: "STARTGG_MIN_REQUEST_INTERVAL", value: "-5ms"},
		{name: "retention zero", key: "SYNC_RETENTION_DAYS", value: "0"},
		{name: "single db conn", key: "DB_MAX_OPEN_CONNS", value: "1"},
		{name: "bad bool", key: "CACHE_ENABLED", value: "sometimes"},
		{name: "bad duration", key: "CACHE_TTL", value: "five minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev/1\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SERVICE_NAME", "tournament-sync-worker")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "tournament-sync-worker" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SYNC_RETENTION_DAYS=45\nSERVICE_NAME=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SERVICE_NAME", "from-env")
	// Registered so t.Setenv restores the variable after godotenv sets it.
	t.Setenv("SYNC_RETENTION_DAYS", "")
	if err := os.Unsetenv("SYNC_RETENTION_DAYS"); err != nil {
		t.Fatalf("unset env: %v", err)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncRetentionDays != 45 {
		t.Fatalf("expected value from file, got %d", cfg.SyncRetentionDays)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("expected existing env to win, got %q", cfg.ServiceName)
	}
}
