package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
)

// SyncGuard admits one pass at a time inside the process. Admission is a
// try-lock; the admitted pass runs on a single-worker ants pool so a panic in
// it never takes the caller down.
type SyncGuard struct {
	mu   sync.Mutex
	pool *ants.Pool
}

func NewSyncGuard() (*SyncGuard, error) {
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, fmt.Errorf("create sync pool: %w", err)
	}
	return &SyncGuard{pool: pool}, nil
}

// Run executes fn and waits for it. A busy guard returns ErrSyncInProgress
// without calling fn.
func (g *SyncGuard) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if !g.mu.TryLock() {
		return ErrSyncInProgress
	}
	defer g.mu.Unlock()

	done := make(chan error, 1)
	err := g.pool.Submit(func() {
		var catcher panics.Catcher
		var runErr error
		catcher.Try(func() { runErr = fn(ctx) })
		if recovered := catcher.Recovered(); recovered != nil {
			runErr = recovered.AsError()
		}
		done <- runErr
	})
	if err != nil {
		return fmt.Errorf("submit sync pass: %w", err)
	}
	return <-done
}

// Busy reports whether a pass currently holds the guard.
func (g *SyncGuard) Busy() bool {
	if g.mu.TryLock() {
		g.mu.Unlock()
		return false
	}
	return true
}

func (g *SyncGuard) Release() {
	g.pool.Release()
}
