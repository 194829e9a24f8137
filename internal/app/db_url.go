package app

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/config"
)

// MigrationsTable keeps golang-migrate bookkeeping apart from other schemas
// sharing the database.
const MigrationsTable = "startgg_schema_migrations"

// DatabaseURL is the DSN handed to the runtime driver.
func DatabaseURL(cfg config.Config) string {
	dsn := strings.TrimSpace(cfg.DBURL)
	if cfg.DBDisablePreparedBinary {
		dsn = withQueryDefault(dsn, "disable_prepared_binary_result", "yes")
	}
	return dsn
}

// MigrationURL is the DSN for cmd/migration. Key/value DSNs are returned
// as-is because golang-migrate only accepts URLs.
func MigrationURL(cfg config.Config) string {
	return withQueryDefault(DatabaseURL(cfg), "x-migrations-table", MigrationsTable)
}

// withQueryDefault sets key only when the URL does not already carry it.
func withQueryDefault(raw, key, value string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(key) != "" {
		return raw
	}
	query.Set(key, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}
	return ""
}
