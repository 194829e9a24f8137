package syncrun

import "context"

// Repository appends and lists audit records. Runs are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, run Run) (Run, error)
	ListRecent(ctx context.Context, limit int) ([]Run, error)
	Latest(ctx context.Context) (Run, bool, error)
}
