package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

const maxRequestBodyBytes = 1 << 16

// TournamentQueries is the read side behind the public routes.
type TournamentQueries interface {
	ListUpcoming(ctx context.Context, limit int) ([]tournament.Tournament, error)
	ListOpenRegistration(ctx context.Context) ([]tournament.Tournament, error)
	Stats(ctx context.Context) (tournament.Stats, error)
	GetBySlug(ctx context.Context, slug string) (usecase.TournamentDetail, error)
	ListEvents(ctx context.Context, tournamentID int64) ([]tournament.Event, error)
	ListEntrants(ctx context.Context, eventID int64, limit int) ([]tournament.Entrant, error)
}

// SyncRunner triggers and inspects sync passes.
type SyncRunner interface {
	SyncUpcomingTournaments(ctx context.Context, syncType syncrun.Type) (usecase.SyncResult, error)
	SyncTournamentBySlug(ctx context.Context, slug string) (usecase.SyncResult, error)
	TestSync(ctx context.Context) (usecase.TestSyncResult, error)
	SyncStats(ctx context.Context) (usecase.SyncStats, error)
	SyncHistory(ctx context.Context, limit int) ([]syncrun.Run, error)
}

type Handler struct {
	queries   TournamentQueries
	sync      SyncRunner
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(queries TournamentQueries, sync SyncRunner, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queries:   queries,
		sync:      sync,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound keeps unmatched paths in the JSON envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(r.Context(), w, fmt.Errorf("%w: no route for %s %s", usecase.ErrNotFound, r.Method, r.URL.Path))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON reads an optional body; an empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return v, nil
}

func parsePathID(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return v, nil
}
