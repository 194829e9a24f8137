package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/tournament-sync/external/startgg"
)

// RemoteClient is the part of the start.gg client the services depend on.
type RemoteClient interface {
	UpcomingTournaments(ctx context.Context, ownerID string, cutoff time.Time) ([]startgg.Tournament, error)
	TournamentBySlug(ctx context.Context, slug string) (startgg.Tournament, bool, error)
	TournamentsByVideogame(ctx context.Context, videogameID int64, page int) (startgg.TournamentPage, error)
	AllEventEntrants(ctx context.Context, eventID int64) ([]startgg.Entrant, error)
	CurrentUser(ctx context.Context) (startgg.User, []byte, error)
}

// RemoteClientFactory builds a client bound to one API token.
type RemoteClientFactory func(token string) RemoteClient

// SecretCipher encrypts credential values at rest.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

// SyncLock guards a sync pass across processes. ok=false means another holder
// already runs a pass.
type SyncLock interface {
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

type noopSyncLock struct{}

func (noopSyncLock) TryLock(_ context.Context) (func(), bool, error) {
	return func() {}, true, nil
}

func NewNoopSyncLock() SyncLock {
	return noopSyncLock{}
}
