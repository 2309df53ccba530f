package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the config.json shape. The configured directory is re-validated
// on every load: a rewritten config file must not be able to point secret
// storage outside home.
type Config struct {
	VaultDir string `json:"vault_dir"`
}

// DefaultBaseDir returns ~/.terminal-vault.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("vault: could not determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// ConfigPath returns the location of config.json. The config file always
// lives in the default base directory, even when it points the vault
// elsewhere.
func ConfigPath() (string, error) {
	base, err := DefaultBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, ConfigFileName), nil
}

// LoadConfig reads config.json. Returns nil without error when no config
// exists.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("vault: failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: config file: %v", ErrBadFormat, err)
	}
	return &cfg, nil
}

// SaveConfig records the vault directory, atomically and owner-only.
func SaveConfig(vaultDir string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(Config{VaultDir: vaultDir}, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: failed to serialize config: %w", err)
	}
	return atomicWrite(path, data)
}

// ResolveBaseDir returns the storage directory: the configured one when a
// config exists (validated against home), the default otherwise.
func ResolveBaseDir() (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return DefaultBaseDir()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("vault: could not determine home directory: %w", err)
	}
	return ValidateVaultDir(home, cfg.VaultDir)
}
