package credential

import "context"

// Repository persists the single settings row. Get reports exists=false when
// the row was never written.
type Repository interface {
	Get(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, settings Settings) error
}
