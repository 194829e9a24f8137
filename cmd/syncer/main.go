package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-sync/internal/app"
	"github.com/riskibarqy/tournament-sync/internal/config"
	"github.com/riskibarqy/tournament-sync/internal/observability"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/spf13/cobra"
)

var envFiles []string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "syncer",
		Short: "Synchronize start.gg tournaments into local storage",
		Long: `syncer pulls the configured owner's tournaments, events and entrants from the
start.gg GraphQL API and stores them locally. Run it from cron with "syncer run",
or keep "syncer schedule" running to sync every configured interval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")

	root.AddCommand(
		newRunCmd(),
		newSyncCmd(),
		newTestCmd(),
		newTestConnectionCmd(),
		newInitKeyCmd(),
		newSetTokenCmd(),
		newSettingsCmd(),
		newStatsCmd(),
		newHistoryCmd(),
		newVideogameCmd(),
		newScheduleCmd(),
	)
	return root
}

// runtime is what every command needs before it touches the services.
type runtime struct {
	cfg      config.Config
	logger   *logging.Logger
	shutdown []func()
}

func loadRuntime() (*runtime, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogFileMaxMB,
		MaxBackups: cfg.LogFileMaxBackups,
	})
	logging.SetDefault(logger)

	return &runtime{cfg: cfg, logger: logger}, nil
}

// startTelemetry is only used by commands that talk to start.gg or storage.
func (r *runtime) startTelemetry() error {
	shutdown, err := observability.Start(r.cfg, "syncer", r.logger)
	if err != nil {
		return err
	}
	r.shutdown = append(r.shutdown, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			r.logger.Warn("shutdown telemetry failed", "error", err)
		}
	})
	return nil
}

func (r *runtime) close() {
	for i := len(r.shutdown) - 1; i >= 0; i-- {
		r.shutdown[i]()
	}
	_ = r.logger.Sync()
}

// withApp loads config, telemetry and the wired services, runs fn, and tears
// everything down again.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.startTelemetry(); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := app.New(ctx, rt.cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			rt.logger.Warn("close app failed", "error", err)
		}
	}()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
