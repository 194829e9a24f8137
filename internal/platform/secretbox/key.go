package secretbox

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// KeySize is the raw key length in bytes (256-bit).
const KeySize = 32

var (
	ErrKeyNotFound = errors.New("encryption key not configured")
	ErrInvalidKey  = errors.New("encryption key must be 64 hex characters")
)

type KeySource string

const (
	KeySourceEnv       KeySource = "env"
	KeySourceFile      KeySource = "file"
	KeySourceGenerated KeySource = "generated"
)

// KeyOptions describes where a key may live. EnvValue is the already-read
// environment value so resolution stays testable.
type KeyOptions struct {
	EnvValue string
	FilePath string
}

// ResolveKey reads the key without side effects: env value first, then file.
func ResolveKey(opts KeyOptions) ([]byte, KeySource, error) {
	if raw := strings.TrimSpace(opts.EnvValue); raw != "" {
		key, err := decodeKey(raw)
		if err != nil {
			return nil, "", fmt.Errorf("env key: %w", err)
		}
		return key, KeySourceEnv, nil
	}

	path := strings.TrimSpace(opts.FilePath)
	if path == "" {
		return nil, "", ErrKeyNotFound
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", ErrKeyNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read key file %s: %w", path, err)
	}
	key, err := decodeKey(string(data))
	if err != nil {
		return nil, "", fmt.Errorf("key file %s: %w", path, err)
	}
	return key, KeySourceFile, nil
}

// InitializeKey is the one-time provisioning step: it returns the existing
// key source if one resolves, otherwise writes a fresh random key to FilePath
// with owner-only permissions.
func InitializeKey(opts KeyOptions) (KeySource, error) {
	_, source, err := ResolveKey(opts)
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return "", err
	}

	path := strings.TrimSpace(opts.FilePath)
	if path == "" {
		return "", fmt.Errorf("key file path is required to generate a key")
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create key dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create key file %s: %w", path, err)
	}
	if _, err := file.WriteString(hex.EncodeToString(key)); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write key file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close key file %s: %w", path, err)
	}

	return KeySourceGenerated, nil
}

func decodeKey(raw string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}
