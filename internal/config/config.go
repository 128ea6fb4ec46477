// Package config loads salonbook settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig    = "SALONBOOK_CONFIG"
	EnvDBPath    = "SALONBOOK_DB_PATH"
	EnvBackupDir = "SALONBOOK_BACKUP_DIR"
	EnvShareCmd  = "SALONBOOK_SHARE_CMD"
	EnvLogLevel  = "LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// BackupDir receives backup artifacts.
	BackupDir string `yaml:"backup_dir"`

	// ShareCommand, if set, is run with each artifact path after a backup
	// (e.g. "xdg-open"). Empty means locations are only reported.
	ShareCommand string `yaml:"share_command"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
// Data lives under ~/.salonbook, or ./.salonbook if there is no home directory.
func Default() *Config {
	base := ".salonbook"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".salonbook")
	}

	return &Config{
		DBPath:    filepath.Join(base, "salonbook.db"),
		BackupDir: filepath.Join(base, "backups"),
		LogLevel:  "info",
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// SALONBOOK_CONFIG is consulted, and with neither no file is read. envFile is
// loaded into the environment (without overriding it) if it exists.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.DBPath = getEnv(EnvDBPath, cfg.DBPath)
	cfg.BackupDir = getEnv(EnvBackupDir, cfg.BackupDir)
	cfg.ShareCommand = getEnv(EnvShareCmd, cfg.ShareCommand)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)

	return cfg, nil
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.BackupDir == "" {
		return errors.New("backup_dir must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
