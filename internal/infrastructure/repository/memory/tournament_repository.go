package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
)

type eventKey struct {
	tournamentID int64
	remoteID     int64
}

type entrantKey struct {
	eventID  int64
	remoteID int64
}

// TournamentRepository keeps tournaments, events and entrants in maps with the
// same uniqueness and cascade rules as the relational schema.
type TournamentRepository struct {
	mu sync.RWMutex

	tournaments map[int64]tournament.Tournament
	bySlug      map[string]int64
	events      map[int64]tournament.Event
	eventIDs    map[eventKey]int64
	entrants    map[int64]tournament.Entrant
	entrantIDs  map[entrantKey]int64

	nextTournamentID int64
	nextEventID      int64
	nextEntrantID    int64

	now func() time.Time
}

func NewTournamentRepository() *TournamentRepository {
	return &TournamentRepository{
		tournaments: make(map[int64]tournament.Tournament),
		bySlug:      make(map[string]int64),
		events:      make(map[int64]tournament.Event),
		eventIDs:    make(map[eventKey]int64),
		entrants:    make(map[int64]tournament.Entrant),
		entrantIDs:  make(map[entrantKey]int64),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for timestamps and date filters.
func (r *TournamentRepository) WithClock(now func() time.Time) *TournamentRepository {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	return r
}

func (r *TournamentRepository) SaveTournament(_ context.Context, item tournament.Tournament) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	slug := strings.TrimSpace(item.Slug)
	if id, ok := r.bySlug[slug]; ok {
		r.tournaments[id] = tournament.MergeTournament(r.tournaments[id], item, now)
		return id, nil
	}

	r.nextTournamentID++
	created := tournament.NewTournament(item, now)
	created.ID = r.nextTournamentID
	r.tournaments[created.ID] = created
	r.bySlug[created.Slug] = created.ID
	return created.ID, nil
}

func (r *TournamentRepository) SaveEvent(_ context.Context, tournamentID int64, item tournament.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tournaments[tournamentID]; !ok {
		return errMissingParent("tournament", tournamentID)
	}

	now := r.now().UTC()
	key := eventKey{tournamentID: tournamentID, remoteID: item.StartggEventID}
	if id, ok := r.eventIDs[key]; ok {
		r.events[id] = tournament.MergeEvent(r.events[id], item, now)
		return nil
	}

	r.nextEventID++
	created := tournament.NewEvent(tournamentID, item, now)
	created.ID = r.nextEventID
	r.events[created.ID] = created
	r.eventIDs[key] = created.ID
	return nil
}

func (r *TournamentRepository) SaveEntrant(_ context.Context, eventID int64, item tournament.Entrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[eventID]; !ok {
		return errMissingParent("event", eventID)
	}

	now := r.now().UTC()
	key := entrantKey{eventID: eventID, remoteID: item.StartggEntrantID}
	if id, ok := r.entrantIDs[key]; ok {
		r.entrants[id] = tournament.MergeEntrant(r.entrants[id], item, now)
		return nil
	}

	r.nextEntrantID++
	created := tournament.NewEntrant(eventID, item, now)
	created.ID = r.nextEntrantID
	r.entrants[created.ID] = created
	r.entrantIDs[key] = created.ID
	return nil
}

func (r *TournamentRepository) EventIDByRemoteID(_ context.Context, tournamentID, startggEventID int64) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.eventIDs[eventKey{tournamentID: tournamentID, remoteID: startggEventID}]
	return id, ok, nil
}

// DeleteOldTournaments removes tournaments whose end is older than daysOld
// days, cascading to their events and entrants.
func (r *TournamentRepository) DeleteOldTournaments(_ context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = tournament.DefaultRetentionDays
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().AddDate(0, 0, -daysOld)
	var removed int64
	for id, item := range r.tournaments {
		if item.EndAt == nil || !item.EndAt.Before(cutoff) {
			continue
		}
		r.deleteTournamentLocked(id)
		removed++
	}
	return removed, nil
}

func (r *TournamentRepository) deleteTournamentLocked(id int64) {
	for eventID, event := range r.events {
		if event.TournamentID != id {
			continue
		}
		for entrantID, entrant := range r.entrants {
			if entrant.EventID == eventID {
				delete(r.entrants, entrantID)
				delete(r.entrantIDs, entrantKey{eventID: eventID, remoteID: entrant.StartggEntrantID})
			}
		}
		delete(r.events, eventID)
		delete(r.eventIDs, eventKey{tournamentID: id, remoteID: event.StartggEventID})
	}
	delete(r.bySlug, r.tournaments[id].Slug)
	delete(r.tournaments, id)
}

// UpdatePastTournaments closes registration on ended tournaments still open.
func (r *TournamentRepository) UpdatePastTournaments(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var affected int64
	for id, item := range r.tournaments {
		if item.IsRegistrationOpen && item.Ended(now) {
			item.IsRegistrationOpen = false
			item.UpdatedAt = now.UTC()
			r.tournaments[id] = item
			affected++
		}
	}
	return affected, nil
}

func (r *TournamentRepository) UpcomingTournaments(_ context.Context, limit int) ([]tournament.Tournament, error) {
	return r.filterTournaments(limit, func(item tournament.Tournament, now time.Time) bool {
		return item.IsUpcoming(now)
	}), nil
}

func (r *TournamentRepository) OpenRegistrationTournaments(_ context.Context) ([]tournament.Tournament, error) {
	return r.filterTournaments(0, func(item tournament.Tournament, now time.Time) bool {
		return item.IsRegistrationOpen && item.IsUpcoming(now)
	}), nil
}

func (r *TournamentRepository) filterTournaments(limit int, keep func(tournament.Tournament, time.Time) bool) []tournament.Tournament {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, item := range r.tournaments {
		if keep(item, now) {
			out = append(out, item)
		}
	}
	tournament.SortByStart(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *TournamentRepository) TournamentBySlug(_ context.Context, slug string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return tournament.Tournament{}, false, nil
	}
	return r.tournaments[id], true, nil
}

func (r *TournamentRepository) TournamentByID(_ context.Context, id int64) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.tournaments[id]
	return item, ok, nil
}

func (r *TournamentRepository) EventsByTournament(_ context.Context, tournamentID int64) ([]tournament.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Event, 0)
	for _, item := range r.events {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	tournament.SortEvents(out)
	return out, nil
}

func (r *TournamentRepository) EntrantsByEvent(_ context.Context, eventID int64, limit int) ([]tournament.Entrant, error) {
	if limit <= 0 {
		limit = tournament.DefaultEntrantLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Entrant, 0)
	for _, item := range r.entrants {
		if item.EventID == eventID {
			out = append(out, item)
		}
	}
	tournament.SortEntrants(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TournamentRepository) Stats(_ context.Context) (tournament.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var stats tournament.Stats
	for _, item := range r.tournaments {
		stats.TotalTournaments++
		if item.IsRegistrationOpen {
			stats.OpenRegistration++
		}
		if item.IsUpcoming(now) {
			stats.Upcoming++
		}
		stats.TotalAttendees += int64(item.NumAttendees)
	}
	return stats, nil
}
