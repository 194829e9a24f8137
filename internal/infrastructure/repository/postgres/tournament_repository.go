package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

const statsQuery = `SELECT
    COUNT(*) AS total_tournaments,
    COUNT(*) FILTER (WHERE is_registration_open) AS open_registration,
    COUNT(*) FILTER (WHERE start_at >= $1) AS upcoming,
    COALESCE(SUM(num_attendees), 0) AS total_attendees
FROM ` + tournamentsTable

type TournamentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db, now: time.Now}
}

func (r *TournamentRepository) SaveTournament(ctx context.Context, item tournament.Tournament) (int64, error) {
	now := r.now().UTC()
	insert := tournament.NewTournament(item, now)

	var id int64
	err := withTx(ctx, r.db, "save tournament", func(tx *sqlx.Tx) error {
		var err error
		id, err = upsertRow(ctx, tx, tournamentsTable, []string{"slug"},
			tournamentToRow(insert),
			[]qb.Condition{qb.Eq("slug", insert.Slug)},
			func(stored tournamentTableModel) (int64, tournamentTableModel) {
				return stored.ID, tournamentToRow(tournament.MergeTournament(tournamentFromRow(stored), item, now))
			},
		)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("save tournament slug=%s: %w", insert.Slug, err)
	}
	return id, nil
}

func (r *TournamentRepository) SaveEvent(ctx context.Context, tournamentID int64, item tournament.Event) error {
	now := r.now().UTC()
	insert := tournament.NewEvent(tournamentID, item, now)

	err := withTx(ctx, r.db, "save event", func(tx *sqlx.Tx) error {
		_, err := upsertRow(ctx, tx, eventsTable, []string{"tournament_id", "startgg_event_id"},
			eventToRow(insert),
			[]qb.Condition{qb.Eq("tournament_id", tournamentID), qb.Eq("startgg_event_id", item.StartggEventID)},
			func(stored eventTableModel) (int64, eventTableModel) {
				return stored.ID, eventToRow(tournament.MergeEvent(eventFromRow(stored), item, now))
			},
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save event tournament_id=%d startgg_event_id=%d: %w", tournamentID, item.StartggEventID, err)
	}
	return nil
}

func (r *TournamentRepository) SaveEntrant(ctx context.Context, eventID int64, item tournament.Entrant) error {
	now := r.now().UTC()
	insert := tournament.NewEntrant(eventID, item, now)

	err := withTx(ctx, r.db, "save entrant", func(tx *sqlx.Tx) error {
		_, err := upsertRow(ctx, tx, entrantsTable, []string{"event_id", "startgg_entrant_id"},
			entrantToRow(insert),
			[]qb.Condition{qb.Eq("event_id", eventID), qb.Eq("startgg_entrant_id", item.StartggEntrantID)},
			func(stored entrantTableModel) (int64, entrantTableModel) {
				return stored.ID, entrantToRow(tournament.MergeEntrant(entrantFromRow(stored), item, now))
			},
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save entrant event_id=%d startgg_entrant_id=%d: %w", eventID, item.StartggEntrantID, err)
	}
	return nil
}

func (r *TournamentRepository) EventIDByRemoteID(ctx context.Context, tournamentID, startggEventID int64) (int64, bool, error) {
	query, args, err := qb.Select("id").
		From(eventsTable).
		Where(
			qb.Eq("tournament_id", tournamentID),
			qb.Eq("startgg_event_id", startggEventID),
		).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build event id query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get event id: %w", err)
	}
	return id, true, nil
}

// DeleteOldTournaments relies on ON DELETE CASCADE for events and entrants.
func (r *TournamentRepository) DeleteOldTournaments(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = tournament.DefaultRetentionDays
	}
	cutoff := r.now().UTC().AddDate(0, 0, -daysOld)

	query, args, err := qb.DeleteFrom(tournamentsTable).
		Where(qb.Lt("end_at", cutoff)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete old tournaments query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old tournaments: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete old tournaments rows affected: %w", err)
	}
	return removed, nil
}

func (r *TournamentRepository) UpdatePastTournaments(ctx context.Context) (int64, error) {
	now := r.now().UTC()
	query, args, err := qb.Update(tournamentsTable).
		Set("is_registration_open", false).
		Set("updated_at", now).
		Where(
			qb.Eq("is_registration_open", true),
			qb.Lt("end_at", now),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build close past tournaments query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("close past tournaments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("close past tournaments rows affected: %w", err)
	}
	return affected, nil
}

func (r *TournamentRepository) UpcomingTournaments(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	return r.listTournaments(ctx, "list upcoming tournaments", limit,
		qb.Gte("start_at", r.now().UTC()),
	)
}

func (r *TournamentRepository) OpenRegistrationTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	return r.listTournaments(ctx, "list open registration tournaments", 0,
		qb.Eq("is_registration_open", true),
		qb.Gte("start_at", r.now().UTC()),
	)
}

func (r *TournamentRepository) listTournaments(ctx context.Context, op string, limit int, conditions ...qb.Condition) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").
		From(tournamentsTable).
		Where(conditions...).
		OrderBy("start_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) TournamentBySlug(ctx context.Context, slug string) (tournament.Tournament, bool, error) {
	return r.getTournament(ctx, qb.Eq("slug", strings.TrimSpace(slug)))
}

func (r *TournamentRepository) TournamentByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	return r.getTournament(ctx, qb.Eq("id", id))
}

func (r *TournamentRepository) getTournament(ctx context.Context, condition qb.Condition) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From(tournamentsTable).Where(condition).ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) EventsByTournament(ctx context.Context, tournamentID int64) ([]tournament.Event, error) {
	query, args, err := qb.Select("*").
		From(eventsTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("start_at ASC NULLS LAST", "name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events tournament_id=%d: %w", tournamentID, err)
	}

	out := make([]tournament.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) EntrantsByEvent(ctx context.Context, eventID int64, limit int) ([]tournament.Entrant, error) {
	if limit <= 0 {
		limit = tournament.DefaultEntrantLimit
	}
	query, args, err := qb.Select("*").
		From(entrantsTable).
		Where(qb.Eq("event_id", eventID)).
		OrderBy("seed ASC NULLS LAST", "gamer_tag ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entrants query: %w", err)
	}

	var rows []entrantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entrants event_id=%d: %w", eventID, err)
	}

	out := make([]tournament.Entrant, 0, len(rows))
	for _, row := range rows {
		out = append(out, entrantFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) Stats(ctx context.Context) (tournament.Stats, error) {
	var row statsRow
	if err := r.db.GetContext(ctx, &row, statsQuery, r.now().UTC()); err != nil {
		return tournament.Stats{}, fmt.Errorf("tournament stats: %w", err)
	}
	return tournament.Stats{
		TotalTournaments: row.TotalTournaments,
		OpenRegistration: row.OpenRegistration,
		Upcoming:         row.Upcoming,
		TotalAttendees:   row.TotalAttendees,
	}, nil
}

// upsertRow inserts insert unless conflictColumns already match; the stored
// row is then locked, handed to merge and written back. It returns the row id.
func upsertRow[M any](
	ctx context.Context,
	tx *sqlx.Tx,
	table string,
	conflictColumns []string,
	insert M,
	lookup []qb.Condition,
	merge func(stored M) (int64, M),
) (int64, error) {
	query, args, err := qb.InsertModel(table, insert).
		OnConflict(conflictColumns...).
		DoNothing().
		Returning("id").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert %s query: %w", table, err)
	}

	var id int64
	err = tx.QueryRowxContext(ctx, query, args...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}

	query, args, err = qb.Select("*").From(table).Where(lookup...).Suffix("FOR UPDATE").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build lock %s query: %w", table, err)
	}
	var stored M
	if err := tx.GetContext(ctx, &stored, query, args...); err != nil {
		return 0, fmt.Errorf("lock %s: %w", table, err)
	}

	id, merged := merge(stored)
	query, args, err = qb.UpdateModel(table, merged, "id")
	if err != nil {
		return 0, fmt.Errorf("build update %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("update %s id=%d: %w", table, id, err)
	}
	return id, nil
}

func withTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}
