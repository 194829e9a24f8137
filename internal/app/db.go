package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// OpenDB opens a traced Postgres pool and verifies it with a ping.
func OpenDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dbName := dbNameFromURL(cfg.DBURL)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}

	db, err := otelsqlx.Open("postgres", DatabaseURL(cfg), opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db=%s: %w", dbName, err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbName))

	logger.InfoContext(ctx, "postgres connected", "db", dbName, "max_open_conns", cfg.DBMaxOpenConns)
	return db, nil
}
