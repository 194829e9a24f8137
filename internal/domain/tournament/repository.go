package tournament

import "context"

// Writer is the upsert and maintenance side of tournament persistence. Every
// successful call changes what readers see.
type Writer interface {
	SaveTournament(ctx context.Context, t Tournament) (int64, error)
	SaveEvent(ctx context.Context, tournamentID int64, e Event) error
	SaveEntrant(ctx context.Context, eventID int64, e Entrant) error
	DeleteOldTournaments(ctx context.Context, daysOld int) (int64, error)
	UpdatePastTournaments(ctx context.Context) (int64, error)
}

// Reader serves the listing queries used by the presentation layer.
type Reader interface {
	UpcomingTournaments(ctx context.Context, limit int) ([]Tournament, error)
	TournamentBySlug(ctx context.Context, slug string) (Tournament, bool, error)
	TournamentByID(ctx context.Context, id int64) (Tournament, bool, error)
	EventsByTournament(ctx context.Context, tournamentID int64) ([]Event, error)
	EntrantsByEvent(ctx context.Context, eventID int64, limit int) ([]Entrant, error)
	OpenRegistrationTournaments(ctx context.Context) ([]Tournament, error)
	Stats(ctx context.Context) (Stats, error)
}

// Repository is the sole reader and writer of persisted tournament data.
type Repository interface {
	Writer
	Reader
	EventIDByRemoteID(ctx context.Context, tournamentID, startggEventID int64) (int64, bool, error)
}
