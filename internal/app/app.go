package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/domain/credential"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/tournament-sync/internal/platform/cache"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/secretbox"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

// App holds the wired services shared by the API server and the syncer CLI.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	DB          *sqlx.DB
	Tournaments tournament.Repository
	Runs        syncrun.Repository
	Credentials *usecase.CredentialService
	Sync        *usecase.TournamentSyncService

	guard *usecase.SyncGuard
}

type backend struct {
	db          *sqlx.DB
	tournaments tournament.Repository
	runs        syncrun.Repository
	settings    credential.Repository
	lock        usecase.SyncLock
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tournaments := store.tournaments
	if cfg.CacheEnabled {
		tournaments = cache.NewTournamentRepository(tournaments, basecache.NewStore(cfg.CacheTTL))
	}

	cipher, err := loadCipher(cfg, logger)
	if err != nil {
		closeDB(store.db)
		return nil, err
	}

	guard, err := usecase.NewSyncGuard()
	if err != nil {
		closeDB(store.db)
		return nil, err
	}

	remote := newRemoteClientFactory(cfg, logger)
	credentials := usecase.NewCredentialService(store.settings, cipher, remote, logger)
	syncSvc := usecase.NewTournamentSyncService(
		credentials,
		remote,
		tournaments,
		store.runs,
		guard,
		store.lock,
		usecase.TournamentSyncConfig{
			SiblingDelay:  cfg.SyncSiblingDelay,
			RetentionDays: cfg.SyncRetentionDays,
		},
		logger,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          store.db,
		Tournaments: tournaments,
		Runs:        store.runs,
		Credentials: credentials,
		Sync:        syncSvc,
		guard:       guard,
	}, nil
}

// KeyOptions tells where the encryption key is resolved from.
func KeyOptions(cfg config.Config) secretbox.KeyOptions {
	return secretbox.KeyOptions{EnvValue: cfg.EncryptionKey, FilePath: cfg.EncryptionKeyFile}
}

func (a *App) Close() error {
	if a.guard != nil {
		a.guard.Release()
	}
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func openBackend(ctx context.Context, cfg config.Config, logger *logging.Logger) (backend, error) {
	if cfg.StorageBackend == config.StorageMemory {
		logger.WarnContext(ctx, "using in-memory storage, data is lost on exit")
		return backend{
			tournaments: memory.NewTournamentRepository(),
			runs:        memory.NewSyncRunRepository(),
			settings:    memory.NewCredentialRepository(),
			lock:        memory.NewSyncLock(),
		}, nil
	}

	db, err := OpenDB(ctx, cfg, logger)
	if err != nil {
		return backend{}, err
	}
	return backend{
		db:          db,
		tournaments: postgres.NewTournamentRepository(db),
		runs:        postgres.NewSyncRunRepository(db),
		settings:    postgres.NewCredentialRepository(db),
		lock:        postgres.NewSyncLock(db),
	}, nil
}

// loadCipher returns a nil interface when no key is provisioned yet, so the
// credential service reports ErrKeyNotConfigured instead of failing startup.
func loadCipher(cfg config.Config, logger *logging.Logger) (usecase.SecretCipher, error) {
	cipher, source, err := secretbox.Load(KeyOptions(cfg))
	if errors.Is(err, secretbox.ErrKeyNotFound) {
		logger.Warn("encryption key not configured, run `syncer init-key`", "key_file", cfg.EncryptionKeyFile)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load encryption key: %w", err)
	}

	logger.Info("encryption key loaded", "source", source)
	return cipher, nil
}

func closeDB(db *sqlx.DB) {
	if db != nil {
		_ = db.Close()
	}
}
