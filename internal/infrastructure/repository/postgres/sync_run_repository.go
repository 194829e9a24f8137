package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

const syncRunsTable = "startgg_sync_log"

type syncRunTableModel struct {
	ID                int64          `db:"id,readonly"`
	RunID             string         `db:"run_id"`
	SyncType          string         `db:"sync_type"`
	Status            string         `db:"status"`
	TournamentsSynced int            `db:"tournaments_synced"`
	EventsSynced      int            `db:"events_synced"`
	EntrantsSynced    int            `db:"entrants_synced"`
	ErrorsCount       int            `db:"errors_count"`
	ErrorMessage      sql.NullString `db:"error_message"`
	LogData           string         `db:"log_data"`
	DurationMS        int64          `db:"duration_ms"`
	CreatedAt         time.Time      `db:"created_at"`
}

type SyncRunRepository struct {
	db *sqlx.DB
}

func NewSyncRunRepository(db *sqlx.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

func (r *SyncRunRepository) Create(ctx context.Context, run syncrun.Run) (syncrun.Run, error) {
	logData, err := marshalLog(run.Log)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("encode sync run log run_id=%s: %w", run.RunID, err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	row := syncRunTableModel{
		RunID:             run.RunID,
		SyncType:          string(run.Type),
		Status:            string(run.Status),
		TournamentsSynced: run.TournamentsSynced,
		EventsSynced:      run.EventsSynced,
		EntrantsSynced:    run.EntrantsSynced,
		ErrorsCount:       run.ErrorsCount,
		ErrorMessage:      sql.NullString{String: run.ErrorMessage, Valid: run.ErrorMessage != ""},
		LogData:           logData,
		DurationMS:        run.DurationMS,
		CreatedAt:         run.CreatedAt.UTC(),
	}
	query, args, err := qb.InsertModel(syncRunsTable, row).Returning("id").ToSQL()
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("build insert sync run query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&run.ID); err != nil {
		return syncrun.Run{}, fmt.Errorf("insert sync run run_id=%s: %w", run.RunID, err)
	}
	return run, nil
}

func (r *SyncRunRepository) ListRecent(ctx context.Context, limit int) ([]syncrun.Run, error) {
	if limit <= 0 {
		return []syncrun.Run{}, nil
	}

	query, args, err := qb.Select("*").
		From(syncRunsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync runs query: %w", err)
	}

	var rows []syncRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}

	out := make([]syncrun.Run, 0, len(rows))
	for _, row := range rows {
		run, err := syncRunFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *SyncRunRepository) Latest(ctx context.Context) (syncrun.Run, bool, error) {
	items, err := r.ListRecent(ctx, 1)
	if err != nil || len(items) == 0 {
		return syncrun.Run{}, false, err
	}
	return items[0], true, nil
}

func syncRunFromRow(row syncRunTableModel) (syncrun.Run, error) {
	entries, err := unmarshalLog(row.LogData)
	if err != nil {
		return syncrun.Run{}, fmt.Errorf("decode sync run log id=%d: %w", row.ID, err)
	}
	return syncrun.Run{
		ID:                row.ID,
		RunID:             row.RunID,
		Type:              syncrun.Type(row.SyncType),
		Status:            syncrun.Status(row.Status),
		TournamentsSynced: row.TournamentsSynced,
		EventsSynced:      row.EventsSynced,
		EntrantsSynced:    row.EntrantsSynced,
		ErrorsCount:       row.ErrorsCount,
		ErrorMessage:      row.ErrorMessage.String,
		Log:               entries,
		DurationMS:        row.DurationMS,
		CreatedAt:         row.CreatedAt.UTC(),
	}, nil
}

func marshalLog(entries []syncrun.LogEntry) (string, error) {
	if len(entries) == 0 {
		return "[]", nil
	}
	raw, err := jsoniter.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalLog(raw string) ([]syncrun.LogEntry, error) {
	entries := []syncrun.LogEntry{}
	if raw == "" {
		return entries, nil
	}
	if err := jsoniter.UnmarshalFromString(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
