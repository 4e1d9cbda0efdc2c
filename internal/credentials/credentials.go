// Package credentials persists and reads the completion service API key.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/hokuspokus/internal/utils"
)

const (
	// APIKeyField is the JSON field holding the API key in the credentials file.
	APIKeyField = "openaiKey"
	// APIKeyEnvironmentVariable overrides the stored API key when set.
	APIKeyEnvironmentVariable = "HOKUSPOKUS_OPENAI_KEY"

	credentialsDirectoryMode os.FileMode = 0o700
	credentialsFileMode      os.FileMode = 0o600
)

// ErrNotConfigured reports that no API key is available.
var ErrNotConfigured = errors.New("hokuspokus is not configured: run 'hokuspokus configure' to store an API key")

// Credentials hold the secrets needed to reach the completion service.
type Credentials struct {
	APIKey string
}

// Reader provides credentials to the task orchestrator.
type Reader interface {
	Read() (Credentials, error)
}

// Store reads and writes the credentials file.
type Store struct {
	path string
}

// NewStore returns a Store for the credentials file at path.
func NewStore(path string) Store {
	return Store{path: path}
}

// DefaultPath returns ~/.hokuspokus/config.json.
func DefaultPath() (string, error) {
	homeDirectory, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for credentials: %w", err)
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.CredentialsFileName), nil
}

// Path returns the location of the credentials file.
func (store Store) Path() string {
	return store.path
}

// Read loads the API key. APIKeyEnvironmentVariable takes precedence over the file.
// A missing file or an empty key yields ErrNotConfigured.
func (store Store) Read() (Credentials, error) {
	reader := viper.New()
	if bindErr := reader.BindEnv(APIKeyField, APIKeyEnvironmentVariable); bindErr != nil {
		return Credentials{}, fmt.Errorf("bind %s: %w", APIKeyEnvironmentVariable, bindErr)
	}

	if _, statErr := os.Stat(store.path); statErr == nil {
		reader.SetConfigFile(store.path)
		reader.SetConfigType("json")
		if readErr := reader.ReadInConfig(); readErr != nil {
			return Credentials{}, fmt.Errorf("read credentials from %s: %w", store.path, readErr)
		}
	} else if !os.IsNotExist(statErr) {
		return Credentials{}, fmt.Errorf("inspect credentials %s: %w", store.path, statErr)
	}

	apiKey := strings.TrimSpace(reader.GetString(APIKeyField))
	if apiKey == "" {
		return Credentials{}, ErrNotConfigured
	}
	return Credentials{APIKey: apiKey}, nil
}

// IsConfigured reports whether an API key is available.
func (store Store) IsConfigured() bool {
	_, err := store.Read()
	return err == nil
}

// Write stores apiKey, replacing any existing file. The file is readable only by its owner.
func (store Store) Write(apiKey string) error {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return errors.New("api key is empty")
	}
	if err := os.MkdirAll(filepath.Dir(store.path), credentialsDirectoryMode); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	payload, marshalErr := json.MarshalIndent(map[string]string{APIKeyField: trimmedKey}, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("encode credentials: %w", marshalErr)
	}
	if err := os.WriteFile(store.path, append(payload, '\n'), credentialsFileMode); err != nil {
		return fmt.Errorf("write credentials to %s: %w", store.path, err)
	}
	return os.Chmod(store.path, credentialsFileMode)
}
