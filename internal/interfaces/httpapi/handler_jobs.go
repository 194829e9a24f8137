package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
)

type syncJobRequest struct {
	SyncType string `json:"sync_type" validate:"omitempty,oneof=scheduled manual"`
}

type syncTournamentJobRequest struct {
	Slug string `json:"slug" validate:"required,max=255"`
}

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	var req syncJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	syncType := syncrun.TypeScheduled
	if req.SyncType != "" {
		syncType = syncrun.Type(req.SyncType)
	}

	result, err := h.sync.SyncUpcomingTournaments(ctx, syncType)
	if err != nil {
		h.logger.WarnContext(ctx, "sync job failed", "sync_type", syncType, "run_id", result.RunID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncTournamentJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncTournamentJob")
	defer span.End()

	var req syncTournamentJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.sync.SyncTournamentBySlug(ctx, req.Slug)
	if err != nil {
		h.logger.WarnContext(ctx, "sync tournament job failed", "slug", req.Slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunTestSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTestSyncJob")
	defer span.End()

	result, err := h.sync.TestSync(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) GetSyncStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncStats")
	defer span.End()

	stats, err := h.sync.SyncStats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.sync.SyncHistory(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runs)
}
