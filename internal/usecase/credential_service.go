package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-sync/internal/domain/credential"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/platform/secretbox"
)

const (
	msgTokenNotConfigured = "API token not configured"
	msgOwnerNotConfigured = "Owner ID not configured"
)

// SettingsUpdate carries the writable settings. Nil fields are left unchanged.
type SettingsUpdate struct {
	SyncInterval  *int    `json:"sync_interval" validate:"omitempty,min=1,max=1440"`
	SyncEnabled   *bool   `json:"sync_enabled"`
	OAuthClientID *string `json:"oauth_client_id" validate:"omitempty,max=255"`
	OwnerID       *string `json:"owner_id" validate:"omitempty,numeric,max=32"`
}

type ConnectionTestResult struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	UserID   int64           `json:"user_id,omitempty"`
	UserName string          `json:"user_name,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

type CredentialService struct {
	repo     credential.Repository
	cipher   SecretCipher
	remote   RemoteClientFactory
	logger   *logging.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewCredentialService wires the settings store. A nil cipher means no
// encryption key was resolved; secret reads and writes then fail with
// ErrKeyNotConfigured.
func NewCredentialService(repo credential.Repository, cipher SecretCipher, remote RemoteClientFactory, logger *logging.Logger) *CredentialService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CredentialService{
		repo:     repo,
		cipher:   cipher,
		remote:   remote,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// SaveAPIToken encrypts and stores the token. Failures are logged and reported
// as false.
func (s *CredentialService) SaveAPIToken(ctx context.Context, token string) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.SaveAPIToken")
	defer span.End()

	return s.saveSecret(ctx, "api_token", token, func(settings *credential.Settings, encrypted string) {
		settings.EncryptedAPIToken = encrypted
	})
}

func (s *CredentialService) SaveOAuthClientSecret(ctx context.Context, secret string) bool {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.SaveOAuthClientSecret")
	defer span.End()

	return s.saveSecret(ctx, "oauth_client_secret", secret, func(settings *credential.Settings, encrypted string) {
		settings.EncryptedOAuthClientSecret = encrypted
	})
}

func (s *CredentialService) saveSecret(ctx context.Context, name, value string, apply func(*credential.Settings, string)) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		s.logger.WarnContext(ctx, "refusing to store empty credential", "field", name)
		return false
	}
	if s.cipher == nil {
		s.logger.ErrorContext(ctx, "cannot store credential", "field", name, "error", ErrKeyNotConfigured)
		return false
	}

	encrypted, err := s.cipher.Encrypt(value)
	if err != nil {
		s.logger.ErrorContext(ctx, "encrypt credential failed", "field", name, "error", err)
		return false
	}

	settings, err := s.load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "load settings failed", "field", name, "error", err)
		return false
	}
	apply(&settings, encrypted)
	settings.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.ErrorContext(ctx, "save credential failed", "field", name, "error", err)
		return false
	}

	s.logger.InfoContext(ctx, "credential stored", "field", name)
	return true
}

// APIToken returns the decrypted token. ok=false with a nil error means no
// token was ever stored.
func (s *CredentialService) APIToken(ctx context.Context) (string, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.APIToken")
	defer span.End()

	return s.secret(ctx, "api_token", func(settings credential.Settings) string {
		return settings.EncryptedAPIToken
	})
}

func (s *CredentialService) OAuthClientSecret(ctx context.Context) (string, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.OAuthClientSecret")
	defer span.End()

	return s.secret(ctx, "oauth_client_secret", func(settings credential.Settings) string {
		return settings.EncryptedOAuthClientSecret
	})
}

func (s *CredentialService) secret(ctx context.Context, name string, pick func(credential.Settings) string) (string, bool, error) {
	settings, exists, err := s.repo.Get(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load settings: %w", err)
	}
	encrypted := pick(settings)
	if !exists || encrypted == "" {
		return "", false, nil
	}
	if s.cipher == nil {
		return "", false, ErrKeyNotConfigured
	}

	plain, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		return "", false, fmt.Errorf("%w: decrypt %s: %v", ErrConfiguration, name, err)
	}
	return plain, true, nil
}

func (s *CredentialService) OwnerID(ctx context.Context) (string, bool, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return "", false, err
	}
	owner := strings.TrimSpace(settings.OwnerID)
	return owner, owner != "", nil
}

// Config returns the stored settings without secret material.
func (s *CredentialService) Config(ctx context.Context) (credential.PublicConfig, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return credential.PublicConfig{}, err
	}
	return settings.Public(), nil
}

// ParseSettingsUpdate converts raw key/value pairs into an update. Keys outside
// credential.WritableFields are rejected.
func ParseSettingsUpdate(fields map[string]string) (SettingsUpdate, error) {
	var update SettingsUpdate
	if len(fields) == 0 {
		return update, fmt.Errorf("%w: no settings provided", ErrInvalidInput)
	}
	for key, raw := range fields {
		value := strings.TrimSpace(raw)
		switch key {
		case credential.FieldSyncInterval:
			minutes, err := strconv.Atoi(value)
			if err != nil {
				return SettingsUpdate{}, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, key)
			}
			update.SyncInterval = &minutes
		case credential.FieldSyncEnabled:
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return SettingsUpdate{}, fmt.Errorf("%w: %s must be a boolean", ErrInvalidInput, key)
			}
			update.SyncEnabled = &enabled
		case credential.FieldOAuthClientID:
			update.OAuthClientID = &value
		case credential.FieldOwnerID:
			update.OwnerID = &value
		default:
			return SettingsUpdate{}, fmt.Errorf("%w: setting %q is not writable", ErrInvalidInput, key)
		}
	}
	return update, nil
}

// UpdateSettings applies an allow-listed set of fields.
func (s *CredentialService) UpdateSettings(ctx context.Context, fields map[string]string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.UpdateSettings")
	defer span.End()

	update, err := ParseSettingsUpdate(fields)
	if err != nil {
		return err
	}
	return s.ApplySettings(ctx, update)
}

func (s *CredentialService) ApplySettings(ctx context.Context, update SettingsUpdate) error {
	if err := s.validate.Struct(update); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}
	if update.SyncInterval != nil {
		settings.SyncIntervalMinutes = *update.SyncInterval
	}
	if update.SyncEnabled != nil {
		settings.SyncEnabled = *update.SyncEnabled
	}
	if update.OAuthClientID != nil {
		settings.OAuthClientID = *update.OAuthClientID
	}
	if update.OwnerID != nil {
		settings.OwnerID = *update.OwnerID
	}
	settings.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("%w: save settings: %v", ErrPersistence, err)
	}
	return nil
}

// IsSyncEnabled is false until settings were saved with sync enabled.
func (s *CredentialService) IsSyncEnabled(ctx context.Context) (bool, error) {
	settings, exists, err := s.repo.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	return exists && settings.SyncEnabled, nil
}

func (s *CredentialService) SyncInterval(ctx context.Context) (time.Duration, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	minutes := settings.SyncIntervalMinutes
	if minutes <= 0 {
		minutes = credential.DefaultSyncInterval
	}
	return time.Duration(minutes) * time.Minute, nil
}

func (s *CredentialService) UpdateLastSync(ctx context.Context) error {
	settings, err := s.load(ctx)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	settings.LastSyncAt = &now
	settings.UpdatedAt = now
	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("%w: save last sync: %v", ErrPersistence, err)
	}
	return nil
}

// TestConnection checks the stored credentials with one currentUser query.
// Missing credentials are reported without a remote call.
func (s *CredentialService) TestConnection(ctx context.Context) ConnectionTestResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.CredentialService.TestConnection")
	defer span.End()

	token, ok, err := s.APIToken(ctx)
	if err != nil {
		return ConnectionTestResult{Message: err.Error()}
	}
	if !ok {
		return ConnectionTestResult{Message: msgTokenNotConfigured}
	}
	if _, ok, err := s.OwnerID(ctx); err != nil {
		return ConnectionTestResult{Message: err.Error()}
	} else if !ok {
		return ConnectionTestResult{Message: msgOwnerNotConfigured}
	}
	if s.remote == nil {
		return ConnectionTestResult{Message: "remote client not configured"}
	}

	user, raw, err := s.remote(token).CurrentUser(ctx)
	result := ConnectionTestResult{Response: rawJSON(raw)}
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Success = true
	result.Message = "Connection successful"
	result.UserID = user.ID
	result.UserName = user.Name
	return result
}

// InitializeEncryptionKey is the one-time deployment step that creates the key
// file when neither the env value nor the file provides a key.
func InitializeEncryptionKey(opts secretbox.KeyOptions, logger *logging.Logger) (secretbox.KeySource, error) {
	if logger == nil {
		logger = logging.Default()
	}
	source, err := secretbox.InitializeKey(opts)
	if err != nil {
		return "", fmt.Errorf("initialize encryption key: %w", err)
	}
	logger.Info("encryption key ready", "source", source, "path", opts.FilePath)
	return source, nil
}

func (s *CredentialService) load(ctx context.Context) (credential.Settings, error) {
	settings, exists, err := s.repo.Get(ctx)
	if err != nil {
		return credential.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !exists {
		return credential.DefaultSettings(), nil
	}
	return settings, nil
}

func rawJSON(raw []byte) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return nil
	}
	return json.RawMessage(raw)
}
