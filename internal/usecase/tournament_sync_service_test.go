package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-sync/external/startgg"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

type stubCredentials struct {
	mu            sync.Mutex
	token         string
	owner         string
	enabled       bool
	lastSyncErr   error
	lastSyncCalls int
}

func (c *stubCredentials) APIToken(context.Context) (string, bool, error) {
	return c.token, c.token != "", nil
}

func (c *stubCredentials) OwnerID(context.Context) (string, bool, error) {
	return c.owner, c.owner != "", nil
}

func (c *stubCredentials) IsSyncEnabled(context.Context) (bool, error) {
	return c.enabled, nil
}

func (c *stubCredentials) UpdateLastSync(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSyncCalls++
	return c.lastSyncErr
}

type stubRemote struct {
	mu          sync.Mutex
	upcoming    []startgg.Tournament
	upcomingErr error
	details     map[string]startgg.Tournament
	entrants    map[int64][]startgg.Entrant
	videogame   map[int64]startgg.TournamentPage
	user        startgg.User
	calls       []string
}

func (r *stubRemote) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *stubRemote) called(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func (r *stubRemote) UpcomingTournaments(_ context.Context, ownerID string, _ time.Time) ([]startgg.Tournament, error) {
	r.record("upcoming:" + ownerID)
	return r.upcoming, r.upcomingErr
}

func (r *stubRemote) TournamentBySlug(_ context.Context, slug string) (startgg.Tournament, bool, error) {
	r.record("detail:" + slug)
	item, ok := r.details[slug]
	return item, ok, nil
}

func (r *stubRemote) TournamentsByVideogame(_ context.Context, videogameID int64, page int) (startgg.TournamentPage, error) {
	r.record(fmt.Sprintf("videogame:%d:%d", videogameID, page))
	return r.videogame[videogameID], nil
}

func (r *stubRemote) AllEventEntrants(_ context.Context, eventID int64) ([]startgg.Entrant, error) {
	r.record("entrants")
	return r.entrants[eventID], nil
}

func (r *stubRemote) CurrentUser(context.Context) (startgg.User, []byte, error) {
	r.record("user")
	return r.user, []byte(`{"currentUser":{"id":1}}`), nil
}

type failingSaveRepository struct {
	*memory.TournamentRepository
	failSlug string
}

func (r failingSaveRepository) SaveTournament(ctx context.Context, item tournament.Tournament) (int64, error) {
	if item.Slug == r.failSlug {
		return 0, errors.New("disk full")
	}
	return r.TournamentRepository.SaveTournament(ctx, item)
}

type busyLock struct{}

func (busyLock) TryLock(context.Context) (func(), bool, error) {
	return nil, false, nil
}

func newTestSyncService(creds SyncCredentials, remote *stubRemote, repo tournament.Repository, runs syncrun.Repository) *TournamentSyncService {
	svc := NewTournamentSyncService(
		creds,
		func(string) RemoteClient { return remote },
		repo,
		runs,
		nil,
		nil,
		TournamentSyncConfig{SiblingDelay: -1},
		logging.NewNop(),
	)
	svc.newRunID = func() string { return "run-test" }
	return svc
}

func unixPtr(t time.Time) *int64 {
	v := t.Unix()
	return &v
}

func remoteTournament(id int64, slug, name string, events ...startgg.Event) startgg.Tournament {
	node := startgg.Tournament{
		ID:      id,
		Slug:    slug,
		Name:    name,
		StartAt: unixPtr(time.Now().Add(72 * time.Hour)),
	}
	if events != nil {
		node.Events = &events
	} else {
		empty := []startgg.Event{}
		node.Events = &empty
	}
	return node
}

func hasLogMessage(entries []syncrun.LogEntry, level syncrun.LogLevel, prefix string) bool {
	for _, entry := range entries {
		if entry.Level == level && strings.HasPrefix(entry.Message, prefix) {
			return true
		}
	}
	return false
}

func TestTournamentSyncService_SyncUpcomingTournaments_PersistsTree(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	creds := &stubCredentials{token: "tok", owner: "42"}
	first, second := 1, 2
	singles := startgg.Event{
		ID:   100,
		Name: "Singles",
		Entrants: &startgg.EntrantConnection{Nodes: []startgg.Entrant{
			{ID: 1001, InitialSeedNum: &second, Participants: []startgg.Participant{{ID: 9, GamerTag: "ace"}}},
			{ID: 1002, InitialSeedNum: &first, Participants: []startgg.Participant{{ID: 10, GamerTag: "bee"}}},
		}},
	}
	remote := &stubRemote{
		upcoming: []startgg.Tournament{
			remoteTournament(1, "tournament/a", "A", singles),
			remoteTournament(2, "tournament/b", "B"),
		},
	}
	repo := memory.NewTournamentRepository()
	runs := memory.NewSyncRunRepository()
	svc := newTestSyncService(creds, remote, repo, runs)

	result, err := svc.SyncUpcomingTournaments(ctx, syncrun.TypeManual)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !result.Success || result.Status != syncrun.StatusSuccess {
		t.Fatalf("expected success, got %+v", result)
	}
	if result.Synced != 2 || result.EventsSynced != 1 || result.EntrantsSynced != 2 || result.Errors != 0 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if remote.called("detail:") != 0 || remote.called("entrants") != 0 {
		t.Fatalf("expected no extra fetches when events and entrants are embedded, got %v", remote.calls)
	}
	if creds.lastSyncCalls != 1 {
		t.Fatalf("expected last sync timestamp updated once, got %d", creds.lastSyncCalls)
	}
	if !hasLogMessage(result.Log, syncrun.LevelInfo, "Fetched 2 tournaments from start.gg") ||
		!hasLogMessage(result.Log, syncrun.LevelInfo, "Sync complete: 2 synced, 0 errors") {
		t.Fatalf("missing expected log lines: %+v", result.Log)
	}

	a, ok, _ := repo.TournamentBySlug(ctx, "tournament/a")
	if !ok {
		t.Fatalf("expected tournament A stored")
	}
	events, _ := repo.EventsByTournament(ctx, a.ID)
	if len(events) != 1 || events[0].Slug != "singles" {
		t.Fatalf("unexpected events for A: %+v", events)
	}
	entrants, _ := repo.EntrantsByEvent(ctx, events[0].ID, 0)
	if len(entrants) != 2 || entrants[0].GamerTag != "bee" || entrants[1].GamerTag != "ace" {
		t.Fatalf("expected entrants in seed order, got %+v", entrants)
	}
	if entrants[0].Seed == nil || *entrants[0].Seed != 1 || entrants[1].Seed == nil || *entrants[1].Seed != 2 {
		t.Fatalf("unexpected seeds: %+v", entrants)
	}
	b, ok, _ := repo.TournamentBySlug(ctx, "tournament/b")
	if !ok {
		t.Fatalf("expected tournament B stored")
	}
	if events, _ := repo.EventsByTournament(ctx, b.ID); len(events) != 0 {
		t.Fatalf("expected B without events, got %d", len(events))
	}
	upcoming, err := repo.UpcomingTournaments(ctx, 10)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	slugs := map[string]bool{}
	for _, item := range upcoming {
		slugs[item.Slug] = true
	}
	if len(upcoming) != 2 || !slugs["tournament/a"] || !slugs["tournament/b"] {
		t.Fatalf("expected A and B upcoming, got %+v", upcoming)
	}

	last, ok, _ := runs.Latest(ctx)
	if !ok {
		t.Fatalf("expected sync run recorded")
	}
	if last.RunID != "run-test" || last.Type != syncrun.TypeManual || last.Status != syncrun.StatusSuccess {
		t.Fatalf("unexpected run: %+v", last)
	}
	if last.TournamentsSynced != 2 || last.EventsSynced != 1 || last.EntrantsSynced != 2 || last.ErrorsCount != 0 {
		t.Fatalf("unexpected run counters: %+v", last)
	}
}

func TestTournamentSyncService_SyncUpcomingTournaments_IsolatesTournamentFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{
		upcoming: []startgg.Tournament{
			remoteTournament(1, "tournament/one", "One"),
			remoteTournament(2, "tournament/two", "Two"),
			remoteTournament(3, "tournament/three", "Three"),
		},
	}
	repo := failingSaveRepository{TournamentRepository: memory.NewTournamentRepository(), failSlug: "tournament/two"}
	runs := memory.NewSyncRunRepository()
	svc := newTestSyncService(&stubCredentials{token: "tok", owner: "42"}, remote, repo, runs)

	result, err := svc.SyncUpcomingTournaments(ctx, syncrun.TypeScheduled)
	if err != nil {
		t.Fatalf("expected partial pass without error, got %v", err)
	}
	if result.Synced != 2 || result.Errors != 1 || result.Status != syncrun.StatusPartial {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !hasLogMessage(result.Log, syncrun.LevelError, "Error syncing tournament:") {
		t.Fatalf("expected error log entry, got %+v", result.Log)
	}
	if _, ok, _ := repo.TournamentBySlug(ctx, "tournament/three"); !ok {
		t.Fatalf("expected tournament after the failure still synced")
	}

	last, _, _ := runs.Latest(ctx)
	if last.Status != syncrun.StatusPartial || last.ErrorsCount != 1 || last.TournamentsSynced != 2 {
		t.Fatalf("unexpected recorded run: %+v", last)
	}
}

func TestTournamentSyncService_SyncUpcomingTournaments_FatalFetchRecordsFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{upcomingErr: &startgg.ProtocolError{StatusCode: 401, Message: "HTTP error 401: unauthorized"}}
	repo := memory.NewTournamentRepository()
	runs := memory.NewSyncRunRepository()
	creds := &stubCredentials{token: "tok", owner: "42"}
	svc := newTestSyncService(creds, remote, repo, runs)

	result, err := svc.SyncUpcomingTournaments(ctx, syncrun.TypeManual)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if result.Success || result.Error != "HTTP error 401: unauthorized" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if creds.lastSyncCalls != 0 {
		t.Fatalf("expected finalize skipped on fatal failure")
	}
	if stats, _ := repo.Stats(ctx); stats.TotalTournaments != 0 {
		t.Fatalf("expected no writes, got %d tournaments", stats.TotalTournaments)
	}

	last, ok, _ := runs.Latest(ctx)
	if !ok || last.Status != syncrun.StatusFailure || last.ErrorsCount != 1 || last.ErrorMessage != "HTTP error 401: unauthorized" {
		t.Fatalf("unexpected failure run: ok=%v run=%+v", ok, last)
	}
	if !hasLogMessage(last.Log, syncrun.LevelError, "Sync failed: HTTP error 401: unauthorized") {
		t.Fatalf("expected failure log line, got %+v", last.Log)
	}
}

func TestTournamentSyncService_SyncUpcomingTournaments_MissingTokenSkipsRemote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{}
	runs := memory.NewSyncRunRepository()
	svc := newTestSyncService(&stubCredentials{owner: "42"}, remote, memory.NewTournamentRepository(), runs)

	result, err := svc.SyncUpcomingTournaments(ctx, "")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if result.Error != "API token not configured" || result.Type != syncrun.TypeScheduled {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", remote.calls)
	}
	if last, ok, _ := runs.Latest(ctx); !ok || last.Status != syncrun.StatusFailure {
		t.Fatalf("expected failure run recorded, got ok=%v %+v", ok, last)
	}
}

func TestTournamentSyncService_SyncUpcomingTournaments_FetchesDetailWhenEventsMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	listed := remoteTournament(5, "tournament/detail", "Detail")
	listed.Events = nil
	remote := &stubRemote{
		upcoming: []startgg.Tournament{listed},
		details: map[string]startgg.Tournament{
			"tournament/detail": remoteTournament(5, "tournament/detail", "Detail", startgg.Event{
				ID:       200,
				Name:     "Doubles",
				Entrants: &startgg.EntrantConnection{Nodes: []startgg.Entrant{{ID: 1}}},
			}),
		},
	}
	svc := newTestSyncService(&stubCredentials{token: "tok", owner: "42"}, remote, memory.NewTournamentRepository(), memory.NewSyncRunRepository())

	result, err := svc.SyncUpcomingTournaments(ctx, syncrun.TypeManual)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if remote.called("detail:tournament/detail") != 1 || remote.called("entrants") != 0 {
		t.Fatalf("unexpected remote calls: %v", remote.calls)
	}
	if result.EventsSynced != 1 || result.EntrantsSynced != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
}

func TestTournamentSyncService_SyncUpcomingTournaments_LockHeldElsewhere(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	runs := memory.NewSyncRunRepository()
	svc := NewTournamentSyncService(&stubCredentials{token: "tok", owner: "42"}, func(string) RemoteClient { return remote },
		memory.NewTournamentRepository(), runs, nil, busyLock{}, TournamentSyncConfig{}, logging.NewNop())

	_, err := svc.SyncUpcomingTournaments(context.Background(), syncrun.TypeManual)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("expected no remote calls")
	}
	if _, ok, _ := runs.Latest(context.Background()); ok {
		t.Fatalf("expected no run recorded for a rejected pass")
	}
}

func TestTournamentSyncService_SyncTournamentBySlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{
		details: map[string]startgg.Tournament{
			"tournament/solo": remoteTournament(9, "tournament/solo", "Solo", startgg.Event{ID: 300, Name: "Singles"}),
		},
	}
	runs := memory.NewSyncRunRepository()
	svc := newTestSyncService(&stubCredentials{token: "tok", owner: "42"}, remote, memory.NewTournamentRepository(), runs)

	if _, err := svc.SyncTournamentBySlug(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank slug, got %v", err)
	}

	result, err := svc.SyncTournamentBySlug(ctx, "tournament/solo")
	if err != nil {
		t.Fatalf("sync slug: %v", err)
	}
	if result.Tournament != "Solo" || result.Synced != 1 || result.EventsSynced != 1 || result.Type != syncrun.TypeSingle {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = svc.SyncTournamentBySlug(ctx, "tournament/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if result.Error != "Tournament not found" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
	last, _, _ := runs.Latest(ctx)
	if last.Type != syncrun.TypeSingle || last.Status != syncrun.StatusFailure {
		t.Fatalf("unexpected run: %+v", last)
	}
}

func TestTournamentSyncService_SyncIfEnabled_SkipsWhenDisabled(t *testing.T) {
	t.Parallel()

	remote := &stubRemote{}
	svc := newTestSyncService(&stubCredentials{token: "tok", owner: "42"}, remote, memory.NewTournamentRepository(), memory.NewSyncRunRepository())

	_, ran, err := svc.SyncIfEnabled(context.Background())
	if err != nil || ran {
		t.Fatalf("expected skipped pass, ran=%v err=%v", ran, err)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("expected no remote calls")
	}
}

func TestSyncGuard_RejectsOverlappingPass(t *testing.T) {
	t.Parallel()

	guard, err := NewSyncGuard()
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}
	defer guard.Release()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- guard.Run(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	if !guard.Busy() {
		t.Fatalf("expected guard busy while a pass runs")
	}
	if err := guard.Run(context.Background(), func(context.Context) error { return nil }); !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if err := guard.Run(context.Background(), func(context.Context) error { panic("boom") }); err == nil {
		t.Fatalf("expected recovered panic as error")
	}
	if guard.Busy() {
		t.Fatalf("expected guard free after the pass")
	}
}

func TestTournamentSyncService_BrowseVideogame(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{
		videogame: map[int64]startgg.TournamentPage{
			1386: {
				PageInfo: startgg.PageInfo{Total: 26, TotalPages: 2},
				Nodes:    []startgg.Tournament{remoteTournament(5, "tournament/weekly", "Weekly")},
			},
		},
	}
	repo := memory.NewTournamentRepository()
	runs := memory.NewSyncRunRepository()
	svc := newTestSyncService(&stubCredentials{token: "tok"}, remote, repo, runs)

	result, err := svc.BrowseVideogame(ctx, 1386, 0)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if result.VideogameID != 1386 || result.Page != 1 || result.Total != 26 || result.TotalPages != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Tournaments) != 1 || result.Tournaments[0].Slug != "tournament/weekly" {
		t.Fatalf("unexpected tournaments: %+v", result.Tournaments)
	}
	if remote.called("videogame:1386:1") != 1 {
		t.Fatalf("expected page 1 requested, got %v", remote.calls)
	}
	if stats, _ := repo.Stats(ctx); stats.TotalTournaments != 0 {
		t.Fatalf("expected nothing stored, got %+v", stats)
	}
	if _, ok, _ := runs.Latest(ctx); ok {
		t.Fatalf("expected no sync run recorded")
	}

	empty, err := svc.BrowseVideogame(ctx, 99, 3)
	if err != nil {
		t.Fatalf("browse empty: %v", err)
	}
	if empty.Page != 3 || empty.Tournaments == nil || len(empty.Tournaments) != 0 {
		t.Fatalf("expected an empty non-nil page, got %+v", empty)
	}
}

func TestTournamentSyncService_BrowseVideogame_RejectsBadInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	remote := &stubRemote{}

	svc := newTestSyncService(&stubCredentials{token: "tok"}, remote, memory.NewTournamentRepository(), memory.NewSyncRunRepository())
	if _, err := svc.BrowseVideogame(ctx, 0, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	noToken := newTestSyncService(&stubCredentials{}, remote, memory.NewTournamentRepository(), memory.NewSyncRunRepository())
	if _, err := noToken.BrowseVideogame(ctx, 1386, 1); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if len(remote.calls) != 0 {
		t.Fatalf("expected no remote calls, got %v", remote.calls)
	}
}
