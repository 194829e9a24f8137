package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

const testJobToken = "job-secret"

type fakeSyncRunner struct {
	syncErr   error
	lastType  syncrun.Type
	lastSlug  string
	lastLimit int
}

func (f *fakeSyncRunner) SyncUpcomingTournaments(_ context.Context, syncType syncrun.Type) (usecase.SyncResult, error) {
	f.lastType = syncType
	if f.syncErr != nil {
		return usecase.SyncResult{RunID: "run-1", Status: syncrun.StatusFailure}, f.syncErr
	}
	return usecase.SyncResult{RunID: "run-1", Type: syncType, Success: true, Status: syncrun.StatusSuccess, Synced: 2}, nil
}

func (f *fakeSyncRunner) SyncTournamentBySlug(_ context.Context, slug string) (usecase.SyncResult, error) {
	f.lastSlug = slug
	return usecase.SyncResult{RunID: "run-2", Type: syncrun.TypeSingle, Success: true, Tournament: slug}, nil
}

func (f *fakeSyncRunner) TestSync(_ context.Context) (usecase.TestSyncResult, error) {
	return usecase.TestSyncResult{Success: true, User: "tester", TournamentsFound: 4}, nil
}

func (f *fakeSyncRunner) SyncStats(_ context.Context) (usecase.SyncStats, error) {
	return usecase.SyncStats{SyncEnabled: true}, nil
}

func (f *fakeSyncRunner) SyncHistory(_ context.Context, limit int) ([]syncrun.Run, error) {
	f.lastLimit = limit
	return []syncrun.Run{}, nil
}

func newTestRouter(t *testing.T, runner *fakeSyncRunner, jobToken string) (http.Handler, *memory.TournamentRepository) {
	t.Helper()

	repo := memory.NewTournamentRepository()
	handler := NewHandler(usecase.NewTournamentQueryService(repo), runner, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, jobToken), repo
}

func serve(router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body["data"]
}

func TestRouter_TournamentRoutes(t *testing.T) {
	t.Parallel()

	router, repo := newTestRouter(t, &fakeSyncRunner{}, testJobToken)
	ctx := context.Background()
	id, err := repo.SaveTournament(ctx, tournament.Tournament{
		StartggID:          77,
		Slug:               "tournament/genesis-11",
		Name:               "Genesis 11",
		StartAt:            time.Now().Add(72 * time.Hour),
		IsRegistrationOpen: true,
		NumAttendees:       12,
	})
	if err != nil {
		t.Fatalf("save tournament: %v", err)
	}
	if err := repo.SaveEvent(ctx, id, tournament.Event{StartggEventID: 9, Name: "Melee Singles"}); err != nil {
		t.Fatalf("save event: %v", err)
	}

	rec := serve(router, http.MethodGet, "/v1/tournaments/tournament/genesis-11", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	detail, _ := decodeData(t, rec).(map[string]any)
	events, _ := detail["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %v", detail["events"])
	}

	rec = serve(router, http.MethodGet, "/v1/tournaments/upcoming?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upcoming: expected 200, got %d", rec.Code)
	}
	if items, _ := decodeData(t, rec).([]any); len(items) != 1 {
		t.Fatalf("expected one upcoming tournament, got %v", items)
	}

	rec = serve(router, http.MethodGet, "/v1/tournaments/stats", "", nil)
	stats, _ := decodeData(t, rec).(map[string]any)
	if got, _ := stats["total_attendees"].(float64); got != 12 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	if rec := serve(router, http.MethodGet, "/v1/tournaments/upcoming?limit=abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/tournaments/tournament/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing slug: expected 404, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/tournaments/id/999/events", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing tournament id: expected 404, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodGet, "/v1/events/zero/entrants", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad event id: expected 400, got %d", rec.Code)
	}
}

func TestRouter_InternalJobTokenGuard(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeSyncRunner{}, testJobToken)

	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", "", map[string]string{internalJobTokenHeader: "nope"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: expected 401, got %d", rec.Code)
	}

	unconfigured, _ := newTestRouter(t, &fakeSyncRunner{}, "")
	if rec := serve(unconfigured, http.MethodPost, "/v1/internal/jobs/sync", "", map[string]string{internalJobTokenHeader: "anything"}); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured token: expected 503, got %d", rec.Code)
	}
}

func TestRouter_SyncJobs(t *testing.T) {
	t.Parallel()

	runner := &fakeSyncRunner{}
	router, _ := newTestRouter(t, runner, testJobToken)
	auth := map[string]string{internalJobTokenHeader: testJobToken}

	rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", "", auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if runner.lastType != syncrun.TypeScheduled {
		t.Fatalf("expected scheduled pass by default, got %q", runner.lastType)
	}

	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", `{"sync_type":"manual"}`, auth); rec.Code != http.StatusOK {
		t.Fatalf("manual sync: expected 200, got %d", rec.Code)
	}
	if runner.lastType != syncrun.TypeManual {
		t.Fatalf("expected manual pass, got %q", runner.lastType)
	}

	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", `{"sync_type":"single"}`, auth); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid sync type: expected 400, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", `{"unknown":true}`, auth); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d", rec.Code)
	}

	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync-tournament", `{}`, auth); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing slug: expected 400, got %d", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync-tournament", `{"slug":"tournament/evo"}`, auth); rec.Code != http.StatusOK {
		t.Fatalf("sync tournament: expected 200, got %d", rec.Code)
	}
	if runner.lastSlug != "tournament/evo" {
		t.Fatalf("unexpected slug: %q", runner.lastSlug)
	}

	if rec := serve(router, http.MethodGet, "/v1/internal/sync/runs?limit=3", "", auth); rec.Code != http.StatusOK {
		t.Fatalf("sync runs: expected 200, got %d", rec.Code)
	}
	if runner.lastLimit != 3 {
		t.Fatalf("unexpected history limit: %d", runner.lastLimit)
	}
}

func TestRouter_SyncInProgressIsConflict(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeSyncRunner{syncErr: usecase.ErrSyncInProgress}, testJobToken)

	rec := serve(router, http.MethodPost, "/v1/internal/jobs/sync", "", map[string]string{internalJobTokenHeader: testJobToken})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeSyncRunner{}, testJobToken)
	if rec := serve(router, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_UnknownPathUsesEnvelope(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t, &fakeSyncRunner{}, testJobToken)
	rec := serve(router, http.MethodGet, "/v2/nothing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"NOT_FOUND"`) {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}
