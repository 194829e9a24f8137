package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/tournament-sync/internal/domain/credential"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
)

func errMissingParent(kind string, id int64) error {
	return fmt.Errorf("%s id=%d does not exist", kind, id)
}

// SyncRunRepository is an append-only list of runs.
type SyncRunRepository struct {
	mu     sync.RWMutex
	runs   []syncrun.Run
	nextID int64
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{}
}

func (r *SyncRunRepository) Create(_ context.Context, run syncrun.Run) (syncrun.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	run.ID = r.nextID
	run.Log = append([]syncrun.LogEntry(nil), run.Log...)
	r.runs = append(r.runs, run)
	return run, nil
}

// ListRecent returns the newest runs first.
func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.Run, error) {
	if limit <= 0 {
		return []syncrun.Run{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, 0, min(limit, len(r.runs)))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.runs[i])
	}
	return out, nil
}

func (r *SyncRunRepository) Latest(ctx context.Context) (syncrun.Run, bool, error) {
	items, err := r.ListRecent(ctx, 1)
	if err != nil || len(items) == 0 {
		return syncrun.Run{}, false, err
	}
	return items[0], true, nil
}

type CredentialRepository struct {
	mu       sync.RWMutex
	settings credential.Settings
	exists   bool
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{}
}

func (r *CredentialRepository) Get(_ context.Context) (credential.Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.settings, r.exists, nil
}

func (r *CredentialRepository) Save(_ context.Context, settings credential.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = settings
	r.exists = true
	return nil
}

// SyncLock is a process-local lock for deployments without Postgres.
type SyncLock struct {
	mu sync.Mutex
}

func NewSyncLock() *SyncLock {
	return &SyncLock{}
}

func (l *SyncLock) TryLock(_ context.Context) (func(), bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	return l.mu.Unlock, true, nil
}
