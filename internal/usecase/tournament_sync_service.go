package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/riskibarqy/tournament-sync/external/startgg"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncrun"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournament"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultSiblingDelay = 50 * time.Millisecond
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
	testSyncSampleSize  = 3
)

// SyncCredentials is what a pass needs from the credential store.
type SyncCredentials interface {
	APIToken(ctx context.Context) (string, bool, error)
	OwnerID(ctx context.Context) (string, bool, error)
	IsSyncEnabled(ctx context.Context) (bool, error)
	UpdateLastSync(ctx context.Context) error
}

type TournamentSyncConfig struct {
	// SiblingDelay is slept between sibling tournaments and events. Negative disables it.
	SiblingDelay  time.Duration
	RetentionDays int
}

type SyncResult struct {
	RunID               string             `json:"run_id"`
	Type                syncrun.Type       `json:"sync_type"`
	Success             bool               `json:"success"`
	Status              syncrun.Status     `json:"status"`
	Synced              int                `json:"synced"`
	EventsSynced        int                `json:"events_synced"`
	EntrantsSynced      int                `json:"entrants_synced"`
	Errors              int                `json:"errors"`
	Deleted             int64              `json:"deleted"`
	ClosedRegistrations int64              `json:"closed_registrations"`
	Tournament          string             `json:"tournament,omitempty"`
	Error               string             `json:"error,omitempty"`
	Log                 []syncrun.LogEntry `json:"log"`
	DurationMS          int64              `json:"duration_ms"`
}

type TestSyncResult struct {
	Success          bool                 `json:"success"`
	User             string               `json:"user,omitempty"`
	TournamentsFound int                  `json:"tournaments_found"`
	Sample           []startgg.Tournament `json:"sample"`
	Error            string               `json:"error,omitempty"`
}

type VideogameTournaments struct {
	VideogameID int64                `json:"videogame_id"`
	Page        int                  `json:"page"`
	Total       int                  `json:"total"`
	TotalPages  int                  `json:"total_pages"`
	Tournaments []startgg.Tournament `json:"tournaments"`
}

type SyncStats struct {
	LastSync        *syncrun.Run     `json:"last_sync"`
	TournamentStats tournament.Stats `json:"tournament_stats"`
	SyncEnabled     bool             `json:"sync_enabled"`
}

// TournamentSyncService drives sync passes from start.gg into the local
// repository and records each pass as a syncrun.Run.
type TournamentSyncService struct {
	credentials SyncCredentials
	remote      RemoteClientFactory
	tournaments tournament.Repository
	runs        syncrun.Repository
	guard       *SyncGuard
	lock        SyncLock
	cfg         TournamentSyncConfig
	logger      *logging.Logger
	validate    *validator.Validate
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
	newRunID    func() string
}

func NewTournamentSyncService(
	credentials SyncCredentials,
	remote RemoteClientFactory,
	tournaments tournament.Repository,
	runs syncrun.Repository,
	guard *SyncGuard,
	lock SyncLock,
	cfg TournamentSyncConfig,
	logger *logging.Logger,
) *TournamentSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if lock == nil {
		lock = NewNoopSyncLock()
	}
	if cfg.SiblingDelay == 0 {
		cfg.SiblingDelay = defaultSiblingDelay
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = tournament.DefaultRetentionDays
	}

	return &TournamentSyncService{
		credentials: credentials,
		remote:      remote,
		tournaments: tournaments,
		runs:        runs,
		guard:       guard,
		lock:        lock,
		cfg:         cfg,
		logger:      logger,
		validate:    validator.New(),
		now:         time.Now,
		sleep:       resilience.Sleep,
		newRunID:    uuid.NewString,
	}
}

// SyncUpcomingTournaments runs one full pass. A fatal failure (missing
// credentials, failed fetch) is recorded as a failure run and returned as the
// error; per-tournament failures only raise the error count.
func (s *TournamentSyncService) SyncUpcomingTournaments(ctx context.Context, syncType syncrun.Type) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncUpcomingTournaments",
		attribute.String("sync.type", string(syncType)),
	)
	defer span.End()

	if syncType == "" {
		syncType = syncrun.TypeScheduled
	}

	var result SyncResult
	err := s.exclusive(ctx, func(ctx context.Context) error {
		var passErr error
		result, passErr = s.runUpcomingPass(ctx, syncType)
		return passErr
	})
	annotateSyncSpan(span, result, err)
	return result, err
}

// SyncIfEnabled runs a scheduled pass only when sync is enabled in settings.
func (s *TournamentSyncService) SyncIfEnabled(ctx context.Context) (SyncResult, bool, error) {
	enabled, err := s.credentials.IsSyncEnabled(ctx)
	if err != nil {
		return SyncResult{}, false, err
	}
	if !enabled {
		s.logger.InfoContext(ctx, "scheduled sync skipped, sync disabled")
		return SyncResult{}, false, nil
	}
	result, err := s.SyncUpcomingTournaments(ctx, syncrun.TypeScheduled)
	return result, true, err
}

// SyncTournamentBySlug resyncs one tournament with its events and entrants.
func (s *TournamentSyncService) SyncTournamentBySlug(ctx context.Context, slug string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncTournamentBySlug",
		attribute.String("startgg.slug", slug),
	)
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return SyncResult{}, fmt.Errorf("%w: tournament slug is required", ErrInvalidInput)
	}

	var result SyncResult
	err := s.exclusive(ctx, func(ctx context.Context) error {
		var passErr error
		result, passErr = s.runSinglePass(ctx, slug)
		return passErr
	})
	annotateSyncSpan(span, result, err)
	return result, err
}

// TestSync authenticates and lists upcoming tournaments without writing.
func (s *TournamentSyncService) TestSync(ctx context.Context) (TestSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.TestSync")
	defer span.End()

	client, ownerID, err := s.connect(ctx)
	if err != nil {
		return TestSyncResult{Error: fatalMessage(err)}, err
	}

	user, _, err := client.CurrentUser(ctx)
	if err != nil {
		return TestSyncResult{Error: fatalMessage(err)}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	nodes, err := client.UpcomingTournaments(ctx, ownerID, time.Time{})
	if err != nil {
		return TestSyncResult{Error: fatalMessage(err)}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	sample := nodes
	if len(sample) > testSyncSampleSize {
		sample = sample[:testSyncSampleSize]
	}
	return TestSyncResult{
		Success:          true,
		User:             user.Name,
		TournamentsFound: len(nodes),
		Sample:           sample,
	}, nil
}

// BrowseVideogame lists one page of public upcoming tournaments for a game.
// Only the API token is needed, nothing is written.
func (s *TournamentSyncService) BrowseVideogame(ctx context.Context, videogameID int64, page int) (VideogameTournaments, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.BrowseVideogame")
	defer span.End()

	if videogameID <= 0 {
		return VideogameTournaments{}, fmt.Errorf("%w: videogame id must be greater than zero", ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}

	client, err := s.tokenClient(ctx)
	if err != nil {
		return VideogameTournaments{}, err
	}
	result, err := client.TournamentsByVideogame(ctx, videogameID, page)
	if err != nil {
		return VideogameTournaments{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	nodes := result.Nodes
	if nodes == nil {
		nodes = []startgg.Tournament{}
	}
	return VideogameTournaments{
		VideogameID: videogameID,
		Page:        page,
		Total:       result.PageInfo.Total,
		TotalPages:  result.PageInfo.TotalPages,
		Tournaments: nodes,
	}, nil
}

func (s *TournamentSyncService) SyncStats(ctx context.Context) (SyncStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncStats")
	defer span.End()

	var out SyncStats
	last, ok, err := s.runs.Latest(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("load last sync run: %w", err)
	}
	if ok {
		out.LastSync = &last
	}

	stats, err := s.tournaments.Stats(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("load tournament stats: %w", err)
	}
	out.TournamentStats = stats

	enabled, err := s.credentials.IsSyncEnabled(ctx)
	if err != nil {
		return SyncStats{}, err
	}
	out.SyncEnabled = enabled
	return out, nil
}

func (s *TournamentSyncService) SyncHistory(ctx context.Context, limit int) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncHistory")
	defer span.End()

	runs, err := s.runs.ListRecent(ctx, clampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	return runs, nil
}

func (s *TournamentSyncService) exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	locked := func(ctx context.Context) error {
		release, ok, err := s.lock.TryLock(ctx)
		if err != nil {
			return fmt.Errorf("%w: acquire sync lock: %v", ErrDependencyUnavailable, err)
		}
		if !ok {
			return ErrSyncInProgress
		}
		defer release()
		return fn(ctx)
	}
	if s.guard == nil {
		return locked(ctx)
	}
	return s.guard.Run(ctx, locked)
}

func (s *TournamentSyncService) runUpcomingPass(ctx context.Context, syncType syncrun.Type) (SyncResult, error) {
	pass := s.newPass(ctx, syncType)
	pass.info("Starting tournament sync...")

	client, ownerID, err := s.connect(ctx)
	if err != nil {
		return s.failPass(ctx, pass, err)
	}

	nodes, err := client.UpcomingTournaments(ctx, ownerID, time.Time{})
	if err != nil {
		return s.failPass(ctx, pass, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err))
	}
	pass.info(fmt.Sprintf("Fetched %d tournaments from start.gg", len(nodes)))

	for i, node := range nodes {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return s.failPass(ctx, pass, err)
			}
		}
		if err := s.syncTournamentIsolated(ctx, client, node, pass); err != nil {
			pass.errors++
			pass.fail("Error syncing tournament: " + err.Error())
			continue
		}
		pass.tournaments++
		pass.info("Synced: " + node.Name)
	}

	s.finalize(ctx, pass)
	pass.info(fmt.Sprintf("Sync complete: %d synced, %d errors", pass.tournaments, pass.errors))

	status := syncrun.StatusFor(pass.errors)
	s.recordRun(ctx, pass, status, "")
	return pass.result(status, ""), nil
}

func (s *TournamentSyncService) runSinglePass(ctx context.Context, slug string) (SyncResult, error) {
	pass := s.newPass(ctx, syncrun.TypeSingle)
	pass.info("Syncing tournament: " + slug)

	client, _, err := s.connect(ctx)
	if err != nil {
		return s.failPass(ctx, pass, err)
	}

	node, ok, err := client.TournamentBySlug(ctx, slug)
	if err != nil {
		return s.failPass(ctx, pass, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err))
	}
	if !ok {
		return s.failPass(ctx, pass, fmt.Errorf("%w: Tournament not found", ErrNotFound))
	}

	if err := s.syncTournamentIsolated(ctx, client, node, pass); err != nil {
		pass.errors++
		return s.failPass(ctx, pass, err)
	}
	pass.tournaments++
	pass.info("Successfully synced tournament")

	status := syncrun.StatusFor(pass.errors)
	s.recordRun(ctx, pass, status, "")
	result := pass.result(status, "")
	result.Tournament = node.Name
	return result, nil
}

// connect resolves credentials and builds a client. Missing values are
// configuration errors with the operator-facing message.
func (s *TournamentSyncService) connect(ctx context.Context) (RemoteClient, string, error) {
	client, err := s.tokenClient(ctx)
	if err != nil {
		return nil, "", err
	}
	ownerID, ok, err := s.credentials.OwnerID(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrConfiguration, msgOwnerNotConfigured)
	}
	return client, ownerID, nil
}

func (s *TournamentSyncService) tokenClient(ctx context.Context) (RemoteClient, error) {
	token, ok, err := s.credentials.APIToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, msgTokenNotConfigured)
	}
	if s.remote == nil {
		return nil, fmt.Errorf("%w: remote client not configured", ErrConfiguration)
	}
	return s.remote(token), nil
}

func (s *TournamentSyncService) syncTournamentIsolated(ctx context.Context, client RemoteClient, node startgg.Tournament, pass *syncPass) (err error) {
	var catcher panics.Catcher
	catcher.Try(func() { err = s.syncTournament(ctx, client, node, pass) })
	if recovered := catcher.Recovered(); recovered != nil {
		return fmt.Errorf("panic while syncing %s: %v", node.Slug, recovered.Value)
	}
	return err
}

func (s *TournamentSyncService) syncTournament(ctx context.Context, client RemoteClient, node startgg.Tournament, pass *syncPass) error {
	if err := s.validate.Struct(node); err != nil {
		return fmt.Errorf("malformed tournament payload slug=%q: %v", node.Slug, err)
	}

	tournamentID, err := s.tournaments.SaveTournament(ctx, mapRemoteTournament(node))
	if err != nil {
		return fmt.Errorf("%w: save tournament %s: %v", ErrPersistence, node.Slug, err)
	}

	events := node.EmbeddedEvents()
	if !node.HasEmbeddedEvents() {
		detail, ok, err := client.TournamentBySlug(ctx, node.Slug)
		if err != nil {
			return fmt.Errorf("fetch events for %s: %w", node.Slug, err)
		}
		if ok {
			events = detail.EmbeddedEvents()
		}
	}

	for i, event := range events {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				return err
			}
		}
		s.syncEvent(ctx, client, tournamentID, event, pass)
	}
	return nil
}

// syncEvent never fails the tournament; each problem is a counted warning.
func (s *TournamentSyncService) syncEvent(ctx context.Context, client RemoteClient, tournamentID int64, node startgg.Event, pass *syncPass) {
	if err := s.validate.Struct(node); err != nil {
		pass.errors++
		pass.warning(fmt.Sprintf("Skipping malformed event %q: %v", node.Name, err))
		return
	}
	if err := s.tournaments.SaveEvent(ctx, tournamentID, mapRemoteEvent(node)); err != nil {
		pass.errors++
		pass.warning(fmt.Sprintf("Failed to save event: %s: %v", node.Name, err))
		return
	}
	pass.events++

	eventID, ok, err := s.tournaments.EventIDByRemoteID(ctx, tournamentID, node.ID)
	if err != nil || !ok {
		pass.errors++
		pass.warning(fmt.Sprintf("Could not find event ID for entrant sync: %s", node.Name))
		return
	}

	var entrants []startgg.Entrant
	if node.Entrants != nil {
		entrants = node.Entrants.Nodes
	} else {
		entrants, err = client.AllEventEntrants(ctx, node.ID)
		if err != nil {
			pass.errors++
			pass.warning(fmt.Sprintf("Failed to fetch entrants for %s: %v", node.Name, err))
			return
		}
	}

	for _, entrant := range entrants {
		if err := s.validate.Struct(entrant); err != nil {
			pass.errors++
			pass.warning(fmt.Sprintf("Skipping malformed entrant in %s: %v", node.Name, err))
			continue
		}
		if err := s.tournaments.SaveEntrant(ctx, eventID, mapRemoteEntrant(entrant)); err != nil {
			pass.errors++
			pass.warning(fmt.Sprintf("Failed to save entrant %d: %v", entrant.ID, err))
			continue
		}
		pass.entrants++
	}
}

// finalize runs bookkeeping; each failure is counted but none aborts the pass.
func (s *TournamentSyncService) finalize(ctx context.Context, pass *syncPass) {
	if err := s.credentials.UpdateLastSync(ctx); err != nil {
		pass.errors++
		pass.warning("Failed to record last sync: " + err.Error())
	}

	deleted, err := s.tournaments.DeleteOldTournaments(ctx, s.cfg.RetentionDays)
	if err != nil {
		pass.errors++
		pass.warning("Failed to clean up old tournaments: " + err.Error())
	} else if deleted > 0 {
		pass.info(fmt.Sprintf("Cleaned up %d old tournaments", deleted))
	}
	pass.deleted = deleted

	closed, err := s.tournaments.UpdatePastTournaments(ctx)
	if err != nil {
		pass.errors++
		pass.warning("Failed to close past tournaments: " + err.Error())
	} else if closed > 0 {
		pass.info(fmt.Sprintf("Closed registration on %d past tournaments", closed))
	}
	pass.closed = closed
}

func (s *TournamentSyncService) failPass(ctx context.Context, pass *syncPass, err error) (SyncResult, error) {
	message := fatalMessage(err)
	pass.fail("Sync failed: " + message)
	s.recordRun(ctx, pass, syncrun.StatusFailure, message)
	return pass.result(syncrun.StatusFailure, message), err
}

func (s *TournamentSyncService) recordRun(ctx context.Context, pass *syncPass, status syncrun.Status, message string) {
	errorsCount := pass.errors
	if status == syncrun.StatusFailure && errorsCount == 0 {
		errorsCount = 1
	}
	run := syncrun.Run{
		RunID:             pass.runID,
		Type:              pass.syncType,
		Status:            status,
		TournamentsSynced: pass.tournaments,
		EventsSynced:      pass.events,
		EntrantsSynced:    pass.entrants,
		ErrorsCount:       errorsCount,
		ErrorMessage:      message,
		Log:               pass.entries,
		DurationMS:        pass.elapsed().Milliseconds(),
		CreatedAt:         s.now().UTC(),
	}
	if _, err := s.runs.Create(context.WithoutCancel(ctx), run); err != nil {
		s.logger.ErrorContext(ctx, "failed to save sync run", "run_id", pass.runID, "error", err)
	}
}

func (s *TournamentSyncService) pause(ctx context.Context) error {
	if s.cfg.SiblingDelay <= 0 {
		return ctx.Err()
	}
	return s.sleep(ctx, s.cfg.SiblingDelay)
}

func (s *TournamentSyncService) newPass(ctx context.Context, syncType syncrun.Type) *syncPass {
	runID := s.newRunID()
	return &syncPass{
		ctx:      ctx,
		runID:    runID,
		syncType: syncType,
		started:  s.now(),
		now:      s.now,
		logger:   s.logger.With("run_id", runID, "sync_type", string(syncType)),
	}
}

// fatalMessage is the triggering text of a fatal error: the upstream message
// for start.gg failures, otherwise the error without its sentinel prefix.
func fatalMessage(err error) string {
	var perr *startgg.ProtocolError
	if errors.As(err, &perr) {
		return perr.Message
	}
	var terr *startgg.TransportError
	if errors.As(err, &terr) {
		return terr.Error()
	}

	msg := err.Error()
	for _, sentinel := range []error{ErrConfiguration, ErrDependencyUnavailable, ErrNotFound, ErrPersistence} {
		if prefix := sentinel.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// syncPass accumulates counters and the per-run log of one pass.
type syncPass struct {
	ctx      context.Context
	runID    string
	syncType syncrun.Type
	started  time.Time
	now      func() time.Time
	logger   *logging.Logger
	entries  []syncrun.LogEntry

	tournaments int
	events      int
	entrants    int
	errors      int
	deleted     int64
	closed      int64
}

func (p *syncPass) add(level syncrun.LogLevel, message string) {
	p.entries = append(p.entries, syncrun.LogEntry{Timestamp: p.now().UTC(), Level: level, Message: message})
	switch level {
	case syncrun.LevelError:
		p.logger.ErrorContext(p.ctx, message)
	case syncrun.LevelWarning:
		p.logger.WarnContext(p.ctx, message)
	default:
		p.logger.InfoContext(p.ctx, message)
	}
}

func (p *syncPass) info(message string)    { p.add(syncrun.LevelInfo, message) }
func (p *syncPass) warning(message string) { p.add(syncrun.LevelWarning, message) }
func (p *syncPass) fail(message string)    { p.add(syncrun.LevelError, message) }

func (p *syncPass) elapsed() time.Duration {
	return p.now().Sub(p.started)
}

func (p *syncPass) result(status syncrun.Status, message string) SyncResult {
	return SyncResult{
		RunID:               p.runID,
		Type:                p.syncType,
		Success:             status != syncrun.StatusFailure,
		Status:              status,
		Synced:              p.tournaments,
		EventsSynced:        p.events,
		EntrantsSynced:      p.entrants,
		Errors:              p.errors,
		Deleted:             p.deleted,
		ClosedRegistrations: p.closed,
		Error:               message,
		Log:                 p.entries,
		DurationMS:          p.elapsed().Milliseconds(),
	}
}
