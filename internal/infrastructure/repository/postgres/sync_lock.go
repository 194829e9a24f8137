package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// syncLockKey identifies the sync pass among session advisory locks.
const syncLockKey int64 = 0x73676773796e63

// SyncLock holds a session advisory lock on a dedicated connection for the
// duration of one pass, so only one process syncs against a database at a time.
type SyncLock struct {
	db  *sqlx.DB
	key int64
}

func NewSyncLock(db *sqlx.DB) *SyncLock {
	return &SyncLock{db: db, key: syncLockKey}
}

func (l *SyncLock) TryLock(ctx context.Context) (func(), bool, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("open sync lock connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowxContext(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&acquired); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	release := func() {
		// Unlock even when the pass context is already cancelled.
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", l.key)
		_ = conn.Close()
	}
	return release, true, nil
}
