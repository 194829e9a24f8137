package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/credential"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

const (
	settingsTable = "startgg_config"
	settingsRowID = 1
)

type settingsTableModel struct {
	ID                int64        `db:"id"`
	APIToken          string       `db:"api_token"`
	OwnerID           string       `db:"owner_id"`
	SyncInterval      int          `db:"sync_interval"`
	SyncEnabled       bool         `db:"sync_enabled"`
	OAuthClientID     string       `db:"oauth_client_id"`
	OAuthClientSecret string       `db:"oauth_client_secret"`
	LastSyncAt        sql.NullTime `db:"last_sync_at"`
	UpdatedAt         time.Time    `db:"updated_at"`
}

// CredentialRepository stores the single settings row with id 1. Secret
// columns hold ciphertext only.
type CredentialRepository struct {
	db *sqlx.DB
}

func NewCredentialRepository(db *sqlx.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Get(ctx context.Context) (credential.Settings, bool, error) {
	query, args, err := qb.Select("*").From(settingsTable).Where(qb.Eq("id", settingsRowID)).ToSQL()
	if err != nil {
		return credential.Settings{}, false, fmt.Errorf("build get settings query: %w", err)
	}

	var row settingsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return credential.Settings{}, false, nil
		}
		return credential.Settings{}, false, fmt.Errorf("get settings: %w", err)
	}

	return credential.Settings{
		EncryptedAPIToken:          row.APIToken,
		OwnerID:                    row.OwnerID,
		SyncIntervalMinutes:        row.SyncInterval,
		SyncEnabled:                row.SyncEnabled,
		OAuthClientID:              row.OAuthClientID,
		EncryptedOAuthClientSecret: row.OAuthClientSecret,
		LastSyncAt:                 timePtr(row.LastSyncAt),
		UpdatedAt:                  row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *CredentialRepository) Save(ctx context.Context, settings credential.Settings) error {
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}
	row := settingsTableModel{
		ID:                settingsRowID,
		APIToken:          settings.EncryptedAPIToken,
		OwnerID:           settings.OwnerID,
		SyncInterval:      settings.SyncIntervalMinutes,
		SyncEnabled:       settings.SyncEnabled,
		OAuthClientID:     settings.OAuthClientID,
		OAuthClientSecret: settings.EncryptedOAuthClientSecret,
		LastSyncAt:        nullTime(settings.LastSyncAt),
		UpdatedAt:         settings.UpdatedAt.UTC(),
	}

	query, args, err := qb.InsertModel(settingsTable, row).OnConflict("id").DoUpdateExcluded().ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert settings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
