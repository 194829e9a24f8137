package httpapi

import (
	"net/http"
)

func (h *Handler) ListUpcomingTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingTournaments")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.queries.ListUpcoming(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list upcoming tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentsToDTO(items))
}

func (h *Handler) ListOpenRegistrationTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenRegistrationTournaments")
	defer span.End()

	items, err := h.queries.ListOpenRegistration(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list open registration tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentsToDTO(items))
}

func (h *Handler) GetTournamentStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentStats")
	defer span.End()

	stats, err := h.queries.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "tournament stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetTournamentBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentBySlug")
	defer span.End()

	detail, err := h.queries.GetBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentDetailDTO{
		Tournament: tournamentToDTO(detail.Tournament),
		Events:     eventsToDTO(detail.Events),
	})
}

func (h *Handler) ListTournamentEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentEvents")
	defer span.End()

	tournamentID, err := parsePathID(r, "tournamentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.queries.ListEvents(ctx, tournamentID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(events))
}

func (h *Handler) ListEventEntrants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventEntrants")
	defer span.End()

	eventID, err := parsePathID(r, "eventID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entrants, err := h.queries.ListEntrants(ctx, eventID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list event entrants failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entrantsToDTO(entrants))
}
