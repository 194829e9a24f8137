package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTournamentRepository_SaveTournamentIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewTournamentRepository().WithClock(fixedClock(now))
	ctx := context.Background()
	item := tournament.Tournament{StartggID: 11, Slug: "tournament/weekly-1", Name: "Weekly #1", StartAt: now.Add(24 * time.Hour)}

	first, err := repo.SaveTournament(ctx, item)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := repo.SaveTournament(ctx, item)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}
	if stats, _ := repo.Stats(ctx); stats.TotalTournaments != 1 {
		t.Fatalf("expected exactly one row, got %d", stats.TotalTournaments)
	}
}

func TestTournamentRepository_UpsertBySlugOverwritesAndKeepsIdentity(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := created
	repo := NewTournamentRepository().WithClock(func() time.Time { return clock })
	ctx := context.Background()

	id, err := repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/major", Name: "Major", StartAt: created.Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	clock = created.Add(time.Hour)
	newStart := created.Add(72 * time.Hour)
	againID, err := repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/major", Name: "Major Renamed", StartAt: newStart})
	if err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, ok, err := repo.TournamentBySlug(ctx, "tournament/major")
	if err != nil || !ok {
		t.Fatalf("lookup: ok=%v err=%v", ok, err)
	}
	if againID != id || got.ID != id {
		t.Fatalf("expected id %d preserved, got %d/%d", id, againID, got.ID)
	}
	if got.Name != "Major Renamed" || !got.StartAt.Equal(newStart) {
		t.Fatalf("expected overwritten fields, got %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(clock) {
		t.Fatalf("unexpected timestamps created=%s updated=%s", got.CreatedAt, got.UpdatedAt)
	}
}

func TestTournamentRepository_DeleteOldTournamentsRetention(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTournamentRepository().WithClock(fixedClock(now))
	ctx := context.Background()

	old := now.AddDate(0, 0, -91)
	recent := now.AddDate(0, 0, -89)
	oldID, _ := repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/old", StartAt: old.Add(-time.Hour), EndAt: &old})
	if _, err := repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/recent", StartAt: recent.Add(-time.Hour), EndAt: &recent}); err != nil {
		t.Fatalf("save recent: %v", err)
	}
	if err := repo.SaveEvent(ctx, oldID, tournament.Event{StartggEventID: 5, Name: "Singles"}); err != nil {
		t.Fatalf("save event: %v", err)
	}
	eventID, _, _ := repo.EventIDByRemoteID(ctx, oldID, 5)
	if err := repo.SaveEntrant(ctx, eventID, tournament.Entrant{StartggEntrantID: 9, GamerTag: "ace"}); err != nil {
		t.Fatalf("save entrant: %v", err)
	}

	removed, err := repo.DeleteOldTournaments(ctx, 90)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed < 1 {
		t.Fatalf("expected at least one removal, got %d", removed)
	}
	if _, ok, _ := repo.TournamentBySlug(ctx, "tournament/old"); ok {
		t.Fatalf("expected 91-day-old tournament removed")
	}
	if _, ok, _ := repo.TournamentBySlug(ctx, "tournament/recent"); !ok {
		t.Fatalf("expected 89-day-old tournament retained")
	}
	if entrants, _ := repo.EntrantsByEvent(ctx, eventID, 0); len(entrants) != 0 {
		t.Fatalf("expected cascade to entrants, got %d", len(entrants))
	}
}

func TestTournamentRepository_UpdatePastTournamentsClosesRegistration(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTournamentRepository().WithClock(fixedClock(now))
	ctx := context.Background()

	ended := now.Add(-time.Hour)
	later := now.Add(time.Hour)
	_, _ = repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/ended", StartAt: ended.Add(-time.Hour), EndAt: &ended, IsRegistrationOpen: true})
	_, _ = repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/live", StartAt: now.Add(-time.Minute), EndAt: &later, IsRegistrationOpen: true})

	affected, err := repo.UpdatePastTournaments(ctx)
	if err != nil || affected != 1 {
		t.Fatalf("expected one tournament closed, got %d err=%v", affected, err)
	}
	endedRow, _, _ := repo.TournamentBySlug(ctx, "tournament/ended")
	liveRow, _, _ := repo.TournamentBySlug(ctx, "tournament/live")
	if endedRow.IsRegistrationOpen || !liveRow.IsRegistrationOpen {
		t.Fatalf("unexpected registration flags ended=%v live=%v", endedRow.IsRegistrationOpen, liveRow.IsRegistrationOpen)
	}
}

func TestTournamentRepository_ReadOrdering(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewTournamentRepository().WithClock(fixedClock(now))
	ctx := context.Background()

	_, _ = repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/c", StartAt: now.Add(3 * time.Hour), NumAttendees: 3})
	_, _ = repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/a", StartAt: now.Add(time.Hour), NumAttendees: 5, IsRegistrationOpen: true})
	_, _ = repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/past", StartAt: now.Add(-time.Hour), NumAttendees: 7, IsRegistrationOpen: true})
	bID, _ := repo.SaveTournament(ctx, tournament.Tournament{Slug: "tournament/b", StartAt: now.Add(2 * time.Hour)})

	upcoming, _ := repo.UpcomingTournaments(ctx, 2)
	if len(upcoming) != 2 || upcoming[0].Slug != "tournament/a" || upcoming[1].Slug != "tournament/b" {
		t.Fatalf("unexpected upcoming order: %+v", upcoming)
	}

	open, _ := repo.OpenRegistrationTournaments(ctx)
	if len(open) != 1 || open[0].Slug != "tournament/a" {
		t.Fatalf("unexpected open registration list: %+v", open)
	}

	stats, _ := repo.Stats(ctx)
	want := tournament.Stats{TotalTournaments: 4, OpenRegistration: 2, Upcoming: 3, TotalAttendees: 15}
	if stats != want {
		t.Fatalf("unexpected stats: got %+v want %+v", stats, want)
	}

	_ = repo.SaveEvent(ctx, bID, tournament.Event{StartggEventID: 1, Name: "Doubles"})
	eventID, ok, _ := repo.EventIDByRemoteID(ctx, bID, 1)
	if !ok {
		t.Fatalf("expected event id resolved")
	}
	two, one := 2, 1
	_ = repo.SaveEntrant(ctx, eventID, tournament.Entrant{StartggEntrantID: 1, GamerTag: "zed"})
	_ = repo.SaveEntrant(ctx, eventID, tournament.Entrant{StartggEntrantID: 2, GamerTag: "bo", Seed: &two})
	_ = repo.SaveEntrant(ctx, eventID, tournament.Entrant{StartggEntrantID: 3, GamerTag: "al", Seed: &one})
	_ = repo.SaveEntrant(ctx, eventID, tournament.Entrant{StartggEntrantID: 4, GamerTag: "amy"})

	entrants, _ := repo.EntrantsByEvent(ctx, eventID, 3)
	if len(entrants) != 3 || entrants[0].GamerTag != "al" || entrants[1].GamerTag != "bo" || entrants[2].GamerTag != "amy" {
		t.Fatalf("unexpected entrant order: %+v", entrants)
	}
}

func TestTournamentRepository_ChildWritesRequireParent(t *testing.T) {
	t.Parallel()

	repo := NewTournamentRepository()
	if err := repo.SaveEvent(context.Background(), 404, tournament.Event{StartggEventID: 1}); err == nil {
		t.Fatalf("expected missing tournament error")
	}
	if err := repo.SaveEntrant(context.Background(), 404, tournament.Entrant{StartggEntrantID: 1}); err == nil {
		t.Fatalf("expected missing event error")
	}
}
