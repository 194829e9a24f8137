package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/app"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
	"github.com/spf13/cobra"
)

var errSyncFailed = errors.New("sync failed")

func newRunCmd() *cobra.Command {
	var manual bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full sync pass over the owner's upcoming tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			syncType := syncrun.TypeScheduled
			if manual {
				syncType = syncrun.TypeManual
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Sync.SyncUpcomingTournaments(ctx, syncType)
				return reportSync(cmd, result, err)
			})
		},
	}
	cmd.Flags().BoolVar(&manual, "manual", false, "record the pass as a manual run")
	return cmd
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync <slug>",
		Short:   "Sync a single tournament by slug",
		Example: "  syncer sync tournament/genesis-11",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Sync.SyncTournamentBySlug(ctx, args[0])
				return reportSync(cmd, result, err)
			})
		},
	}
}

func reportSync(cmd *cobra.Command, result usecase.SyncResult, err error) error {
	if errors.Is(err, usecase.ErrSyncInProgress) {
		return err
	}
	if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
		return printErr
	}
	if err != nil {
		return err
	}
	if !result.Success {
		return errSyncFailed
	}
	return nil
}

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Fetch a sample of upcoming tournaments without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Sync.TestSync(ctx)
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
					return printErr
				}
				if err != nil {
					return err
				}
				if !result.Success {
					return errSyncFailed
				}
				return nil
			})
		},
	}
}

func newTestConnectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Check the stored API token against start.gg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result := a.Credentials.TestConnection(ctx)
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if !result.Success {
					return fmt.Errorf("connection test failed: %s", result.Message)
				}
				return nil
			})
		},
	}
}

func newInitKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-key",
		Short: "Create the encryption key file if no key is configured",
		Long: `init-key is the one-time deployment step that generates the 256-bit key used to
encrypt stored credentials. It does nothing when STARTGG_ENCRYPTION_KEY is set
or the key file already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			opts := app.KeyOptions(rt.cfg)
			source, err := usecase.InitializeEncryptionKey(opts, rt.logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "encryption key ready (source=%s, file=%s)\n", source, opts.FilePath)
			return err
		},
	}
}

func newSetTokenCmd() *cobra.Command {
	var oauthSecret bool
	cmd := &cobra.Command{
		Use:   "set-token [token]",
		Short: "Encrypt and store the start.gg API token",
		Long: `set-token stores the API token encrypted at rest. Without an argument the token
is read from the first line of stdin, which keeps it out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := secretArg(cmd, args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				field := "api token"
				var stored bool
				if oauthSecret {
					field = "oauth client secret"
					stored = a.Credentials.SaveOAuthClientSecret(ctx, value)
				} else {
					stored = a.Credentials.SaveAPIToken(ctx, value)
				}
				if !stored {
					return fmt.Errorf("%s was not stored, see logs", field)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s stored\n", field)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&oauthSecret, "oauth-client-secret", false, "store the value as the OAuth client secret instead")
	return cmd
}

func secretArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read token from stdin: %w", err)
		}
		return "", fmt.Errorf("no token given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the stored sync settings without secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				settings, err := a.Credentials.Config(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), settings)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "set key=value...",
		Short:   "Update sync_interval, sync_enabled, oauth_client_id or owner_id",
		Example: "  syncer settings set owner_id=12345 sync_enabled=true sync_interval=30",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Credentials.UpdateSettings(ctx, fields); err != nil {
					return err
				}
				settings, err := a.Credentials.Config(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), settings)
			})
		},
	})
	return cmd
}

func parseAssignments(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", usecase.ErrInvalidInput, arg)
		}
		fields[key] = value
	}
	return fields, nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the last run and local tournament totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				stats, err := a.Sync.SyncStats(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sync runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				runs, err := a.Sync.SyncHistory(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), runs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func newVideogameCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "videogame <videogame-id>",
		Short:   "List public upcoming tournaments for a videogame without storing them",
		Example: "  syncer videogame 1386 --page 2",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videogameID, err := parseVideogameID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Sync.BrowseVideogame(ctx, videogameID, page)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "result page to fetch")
	return cmd
}

func parseVideogameID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: videogame id must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return id, nil
}
