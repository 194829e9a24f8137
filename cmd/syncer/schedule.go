package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/tournament-sync/internal/app"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Keep running and sync every configured interval",
		Long: `schedule runs a scheduled pass immediately and then every sync_interval minutes
from the stored settings, until interrupted. Passes are skipped while sync is
disabled in settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				every := interval
				if every <= 0 {
					stored, err := a.Credentials.SyncInterval(ctx)
					if err != nil {
						return err
					}
					every = stored
				}
				return runSchedule(ctx, a.Sync, every, a.Logger)
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "override the stored sync interval")
	return cmd
}

type scheduledSyncer interface {
	SyncIfEnabled(ctx context.Context) (usecase.SyncResult, bool, error)
}

// runSchedule blocks until ctx is cancelled.
func runSchedule(ctx context.Context, syncer scheduledSyncer, every time.Duration, logger *logging.Logger) error {
	sched, err := gocron.NewScheduler(gocron.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() { scheduledPass(ctx, syncer, logger) }),
		gocron.WithName("startgg-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule sync job: %w", err)
	}

	logger.Info("sync scheduler started", "interval", every.String())
	sched.Start()
	<-ctx.Done()

	logger.Info("sync scheduler stopping")
	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

func scheduledPass(ctx context.Context, syncer scheduledSyncer, logger *logging.Logger) {
	result, ran, err := syncer.SyncIfEnabled(ctx)
	switch {
	case errors.Is(err, usecase.ErrSyncInProgress):
		logger.WarnContext(ctx, "scheduled sync skipped, another pass is running")
	case err != nil:
		logger.ErrorContext(ctx, "scheduled sync failed", "error", err, "run_id", result.RunID)
	case ran:
		logger.InfoContext(ctx, "scheduled sync finished",
			"run_id", result.RunID,
			"status", result.Status,
			"synced", result.Synced,
			"errors", result.Errors,
		)
	}
}
