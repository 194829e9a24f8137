package credential

import "time"

const (
	DefaultSyncInterval = 30

	FieldSyncInterval  = "sync_interval"
	FieldSyncEnabled   = "sync_enabled"
	FieldOAuthClientID = "oauth_client_id"
	FieldOwnerID       = "owner_id"
)

// WritableFields is the allow-list accepted by settings updates.
var WritableFields = []string{FieldSyncInterval, FieldSyncEnabled, FieldOAuthClientID, FieldOwnerID}

// Settings is the single stored configuration row. Encrypted* values are
// ciphertexts and never leave the credential service.
type Settings struct {
	EncryptedAPIToken          string
	OwnerID                    string
	SyncIntervalMinutes        int
	SyncEnabled                bool
	OAuthClientID              string
	EncryptedOAuthClientSecret string
	LastSyncAt                 *time.Time
	UpdatedAt                  time.Time
}

// PublicConfig is Settings without secret material.
type PublicConfig struct {
	OwnerID             string     `json:"owner_id"`
	SyncIntervalMinutes int        `json:"sync_interval"`
	SyncEnabled         bool       `json:"sync_enabled"`
	OAuthClientID       string     `json:"oauth_client_id"`
	HasAPIToken         bool       `json:"has_api_token"`
	HasOAuthSecret      bool       `json:"has_oauth_client_secret"`
	LastSyncAt          *time.Time `json:"last_sync_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (s Settings) Public() PublicConfig {
	return PublicConfig{
		OwnerID:             s.OwnerID,
		SyncIntervalMinutes: s.SyncIntervalMinutes,
		SyncEnabled:         s.SyncEnabled,
		OAuthClientID:       s.OAuthClientID,
		HasAPIToken:         s.EncryptedAPIToken != "",
		HasOAuthSecret:      s.EncryptedOAuthClientSecret != "",
		LastSyncAt:          s.LastSyncAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// DefaultSettings is what a fresh store reports before anything is saved.
func DefaultSettings() Settings {
	return Settings{SyncIntervalMinutes: DefaultSyncInterval}
}
