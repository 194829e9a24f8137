package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	basecache "github.com/riskibarqy/tournament-sync/internal/platform/cache"
)

// keyPrefix namespaces every tournament read so one DeletePrefix drops them all.
const keyPrefix = "startgg:"

// TournamentRepository caches reads of the next repository. Any successful
// write drops the whole namespace, so readers never see data older than the
// last write from this process.
type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) SaveTournament(ctx context.Context, item tournament.Tournament) (int64, error) {
	id, err := r.next.SaveTournament(ctx, item)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx)
	return id, nil
}

func (r *TournamentRepository) SaveEvent(ctx context.Context, tournamentID int64, item tournament.Event) error {
	if err := r.next.SaveEvent(ctx, tournamentID, item); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *TournamentRepository) SaveEntrant(ctx context.Context, eventID int64, item tournament.Entrant) error {
	if err := r.next.SaveEntrant(ctx, eventID, item); err != nil {
		return err
	}

	r.invalidate(ctx)
	return nil
}

func (r *TournamentRepository) DeleteOldTournaments(ctx context.Context, daysOld int) (int64, error) {
	removed, err := r.next.DeleteOldTournaments(ctx, daysOld)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx)
	return removed, nil
}

func (r *TournamentRepository) UpdatePastTournaments(ctx context.Context) (int64, error) {
	affected, err := r.next.UpdatePastTournaments(ctx)
	if err != nil {
		return 0, err
	}

	r.invalidate(ctx)
	return affected, nil
}

// EventIDByRemoteID is on the write path of a pass and is never cached.
func (r *TournamentRepository) EventIDByRemoteID(ctx context.Context, tournamentID, startggEventID int64) (int64, bool, error) {
	return r.next.EventIDByRemoteID(ctx, tournamentID, startggEventID)
}

func (r *TournamentRepository) UpcomingTournaments(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	key := basecache.Key("startgg", "upcoming", limit)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]tournament.Tournament, error) {
		items, err := r.next.UpcomingTournaments(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) OpenRegistrationTournaments(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := basecache.Load(ctx, r.cache, basecache.Key("startgg", "open"), func(ctx context.Context) ([]tournament.Tournament, error) {
		items, err := r.next.OpenRegistrationTournaments(ctx)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) TournamentBySlug(ctx context.Context, slug string) (tournament.Tournament, bool, error) {
	key := basecache.Key("startgg", "slug", strings.TrimSpace(slug))
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedTournament, error) {
		item, exists, err := r.next.TournamentBySlug(ctx, slug)
		if err != nil {
			return cachedTournament{}, err
		}
		return cachedTournament{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *TournamentRepository) TournamentByID(ctx context.Context, id int64) (tournament.Tournament, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, basecache.Key("startgg", "id", id), func(ctx context.Context) (cachedTournament, error) {
		item, exists, err := r.next.TournamentByID(ctx, id)
		if err != nil {
			return cachedTournament{}, err
		}
		return cachedTournament{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	return cached.value, cached.exists, nil
}

type cachedTournament struct {
	value  tournament.Tournament
	exists bool
}

func (r *TournamentRepository) EventsByTournament(ctx context.Context, tournamentID int64) ([]tournament.Event, error) {
	key := basecache.Key("startgg", "events", tournamentID)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]tournament.Event, error) {
		items, err := r.next.EventsByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]tournament.Event(nil), items...), nil
}

func (r *TournamentRepository) EntrantsByEvent(ctx context.Context, eventID int64, limit int) ([]tournament.Entrant, error) {
	key := basecache.Key("startgg", "entrants", eventID, limit)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]tournament.Entrant, error) {
		items, err := r.next.EntrantsByEvent(ctx, eventID, limit)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Entrant(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]tournament.Entrant(nil), items...), nil
}

func (r *TournamentRepository) Stats(ctx context.Context) (tournament.Stats, error) {
	return basecache.Load(ctx, r.cache, basecache.Key("startgg", "stats"), r.next.Stats)
}

func (r *TournamentRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, keyPrefix)
}
