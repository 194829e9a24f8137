package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

const (
	defaultUpcomingLimit = 50
	maxUpcomingLimit     = 200
	maxEntrantLimit      = 500
)

type TournamentDetail struct {
	Tournament tournament.Tournament
	Events     []tournament.Event
}

// TournamentQueryService serves the read API over stored tournaments.
type TournamentQueryService struct {
	repo tournament.Reader
}

func NewTournamentQueryService(repo tournament.Reader) *TournamentQueryService {
	return &TournamentQueryService{repo: repo}
}

func (s *TournamentQueryService) ListUpcoming(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	items, err := s.repo.UpcomingTournaments(ctx, clampLimit(limit, defaultUpcomingLimit, maxUpcomingLimit))
	if err != nil {
		return nil, fmt.Errorf("list upcoming tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentQueryService) ListOpenRegistration(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := s.repo.OpenRegistrationTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open registration tournaments: %w", err)
	}
	return items, nil
}

func (s *TournamentQueryService) Stats(ctx context.Context) (tournament.Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return tournament.Stats{}, fmt.Errorf("tournament stats: %w", err)
	}
	return stats, nil
}

// GetBySlug returns the tournament with its events.
func (s *TournamentQueryService) GetBySlug(ctx context.Context, slug string) (TournamentDetail, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return TournamentDetail{}, fmt.Errorf("%w: tournament slug is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.TournamentBySlug(ctx, slug)
	if err != nil {
		return TournamentDetail{}, fmt.Errorf("get tournament slug=%s: %w", slug, err)
	}
	if !exists {
		return TournamentDetail{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, slug)
	}

	events, err := s.repo.EventsByTournament(ctx, item.ID)
	if err != nil {
		return TournamentDetail{}, fmt.Errorf("list events tournament=%d: %w", item.ID, err)
	}
	return TournamentDetail{Tournament: item, Events: events}, nil
}

func (s *TournamentQueryService) ListEvents(ctx context.Context, tournamentID int64) ([]tournament.Event, error) {
	if tournamentID <= 0 {
		return nil, fmt.Errorf("%w: tournament id must be positive", ErrInvalidInput)
	}

	_, exists, err := s.repo.TournamentByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get tournament id=%d: %w", tournamentID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: tournament id=%d", ErrNotFound, tournamentID)
	}

	events, err := s.repo.EventsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list events tournament=%d: %w", tournamentID, err)
	}
	return events, nil
}

func (s *TournamentQueryService) ListEntrants(ctx context.Context, eventID int64, limit int) ([]tournament.Entrant, error) {
	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id must be positive", ErrInvalidInput)
	}

	items, err := s.repo.EntrantsByEvent(ctx, eventID, clampLimit(limit, tournament.DefaultEntrantLimit, maxEntrantLimit))
	if err != nil {
		return nil, fmt.Errorf("list entrants event=%d: %w", eventID, err)
	}
	return items, nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
