package querybuilder

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "slug").
		From("startgg_tournaments").
		Where(Gte("start_at", "2026-01-01"), IsNotNull("slug")).
		OrderBy("start_at ASC").
		Limit(10).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, slug FROM startgg_tournaments WHERE start_at >= $1 AND slug IS NOT NULL ORDER BY start_at ASC LIMIT 10 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2026-01-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("startgg_events").
		Columns("tournament_id", "startgg_event_id", "name").
		Values(int64(1), int64(44), "Melee Singles").
		OnConflict("tournament_id", "startgg_event_id").
		DoNothing().
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO startgg_events (tournament_id, startgg_event_id, name) VALUES ($1, $2, $3) ON CONFLICT (tournament_id, startgg_event_id) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(1) || args[2] != "Melee Singles" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected mismatched values error")
	}
	if _, _, err := InsertInto("t").Columns("a").Values(1).DoNothing().ToSQL(); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected missing conflict target error, got %v", err)
	}
}

func TestInsertBuilder_DoUpdateExcluded(t *testing.T) {
	query, _, err := InsertInto("settings").
		Columns("id", "owner_id", "sync_enabled").
		Values(int64(1), "42", true).
		OnConflict("id").
		DoUpdateExcluded().
		ToSQL()
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}
	want := "INSERT INTO settings (id, owner_id, sync_enabled) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET owner_id = EXCLUDED.owner_id, sync_enabled = EXCLUDED.sync_enabled"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}

	query, _, err = InsertInto("settings").
		Columns("id", "owner_id", "sync_enabled").
		Values(int64(1), "42", true).
		OnConflict("id").
		DoUpdateExcluded("sync_enabled").
		ToSQL()
	if err != nil {
		t.Fatalf("build partial upsert query: %v", err)
	}
	if !strings.HasSuffix(query, "DO UPDATE SET sync_enabled = EXCLUDED.sync_enabled") {
		t.Fatalf("unexpected query: %s", query)
	}

	if _, _, err := InsertInto("settings").Columns("id").Values(int64(1)).OnConflict("id").DoUpdateExcluded().ToSQL(); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected empty update set error, got %v", err)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("startgg_tournaments").
		Set("is_registration_open", false).
		SetExpr("updated_at", "NOW()").
		Where(Lt("end_at", "now"), Eq("is_registration_open", true)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE startgg_tournaments SET is_registration_open = $1, updated_at = NOW() WHERE end_at < $2 AND is_registration_open = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != false || args[2] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("startgg_tournaments").
		Where(Expr("end_at < ?", "cutoff")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM startgg_tournaments WHERE end_at < $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != "cutoff" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("startgg_tournaments").ToSQL(); err == nil {
		t.Fatalf("expected unconditioned delete to be rejected")
	}
}

type testRow struct {
	ID        int64     `db:"id,readonly"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at,readonly"`
	internal  string
	Ignored   string `db:"-"`
}

func TestInsertModel_SkipsReadonlyColumns(t *testing.T) {
	query, args, err := InsertModel("t", testRow{ID: 9, Slug: "s", Name: "n", internal: "x"}).Returning("id").ToSQL()
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	if query != "INSERT INTO t (slug, name) VALUES ($1, $2) RETURNING id" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != "s" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_DefersMappingError(t *testing.T) {
	if _, _, err := InsertModel("t", nil).Returning("id").ToSQL(); err == nil {
		t.Fatalf("expected nil model to fail")
	}
}

func TestUpdateModel_UsesKeyColumns(t *testing.T) {
	query, args, err := UpdateModel("t", &testRow{ID: 9, Slug: "s", Name: "n"}, "id")
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	if query != "UPDATE t SET slug = $1, name = $2 WHERE id = $3" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 3 || args[2] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestColumns(t *testing.T) {
	cols := Columns(testRow{})
	want := []string{"id", "slug", "name", "created_at"}
	if len(cols) != len(want) {
		t.Fatalf("unexpected columns: %v", cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("unexpected columns: %v", cols)
		}
	}
}
