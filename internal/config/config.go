package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

const (
	minCollectionIntervalSeconds = 1
	maxCollectionIntervalSeconds = 86400
	minTimeoutSeconds            = 1
	maxTimeoutSeconds            = 300
	minRetentionDays             = 1
	maxRetentionDays             = 3650
	minCleanupIntervalHours      = 1
	maxCleanupIntervalHours      = 720
)

// HomeEnv overrides the data directory.
const HomeEnv = "ABAT_HOME"

type Config struct {
	Ioreg      IoregConfig      `toml:"ioreg"`
	Storage    StorageConfig    `toml:"storage"`
	Collection CollectionConfig `toml:"collection"`
	Cleanup    CleanupConfig    `toml:"cleanup"`
	Server     ServerConfig     `toml:"server"`
	Logging    LoggingConfig    `toml:"logging"`
}

type IoregConfig struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	Variant        string   `toml:"variant"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type CollectionConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

type CleanupConfig struct {
	RetentionDays int `toml:"retention_days"`
	IntervalHours int `toml:"interval_hours"`
}

type ServerConfig struct {
	// ListenAddr enables the HTTP API when non-empty.
	ListenAddr string `toml:"listen_addr"`
	Metrics    bool   `toml:"metrics"`
	DBus       bool   `toml:"dbus"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// DataDir returns $ABAT_HOME made absolute, or ~/Library/Application Support/abat.
func DataDir() string {
	if dir := strings.TrimSpace(os.Getenv(HomeEnv)); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return filepath.Clean(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, "Library", "Application Support", "abat")
}

// DefaultPath is where the CLI looks for its config file.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

func DefaultConfig() *Config {
	src := collector.DefaultSource()
	return &Config{
		Ioreg: IoregConfig{
			Command:        src.Command,
			Args:           src.Args,
			Variant:        collector.Snapshot.Name,
			TimeoutSeconds: int(src.Timeout.Seconds()),
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DataDir(), "history.db"),
		},
		Collection: CollectionConfig{
			IntervalSeconds: 60,
		},
		Cleanup: CleanupConfig{
			RetentionDays: 90,
			IntervalHours: 24,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:9737",
			Metrics:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return NormalizeAndValidate(cfg)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NormalizeAndValidate(DefaultConfig())
	}
	return cfg, err
}

func NormalizeAndValidate(cfg *Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	sanitized := *cfg
	sanitized.Ioreg.Args = append([]string(nil), cfg.Ioreg.Args...)

	var err error
	sanitized.Storage.DBPath, err = sanitizePath("storage.db_path", sanitized.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	sanitized.Ioreg.Command = strings.TrimSpace(sanitized.Ioreg.Command)
	if sanitized.Ioreg.Command == "" {
		return nil, fmt.Errorf("ioreg.command must not be empty")
	}
	v, err := collector.VariantByName(sanitized.Ioreg.Variant)
	if err != nil {
		return nil, fmt.Errorf("ioreg.variant: %w", err)
	}
	sanitized.Ioreg.Variant = v.Name

	if err := validateRange("ioreg.timeout_seconds", sanitized.Ioreg.TimeoutSeconds, minTimeoutSeconds, maxTimeoutSeconds); err != nil {
		return nil, err
	}
	if err := validateRange("collection.interval_seconds", sanitized.Collection.IntervalSeconds, minCollectionIntervalSeconds, maxCollectionIntervalSeconds); err != nil {
		return nil, err
	}
	if err := validateRange("cleanup.retention_days", sanitized.Cleanup.RetentionDays, minRetentionDays, maxRetentionDays); err != nil {
		return nil, err
	}
	if err := validateRange("cleanup.interval_hours", sanitized.Cleanup.IntervalHours, minCleanupIntervalHours, maxCleanupIntervalHours); err != nil {
		return nil, err
	}

	sanitized.Server.ListenAddr = strings.TrimSpace(sanitized.Server.ListenAddr)

	sanitized.Logging.Level = strings.ToLower(strings.TrimSpace(sanitized.Logging.Level))
	switch sanitized.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}

	return &sanitized, nil
}

// Source returns the collector source described by the [ioreg] section.
func (c *Config) Source() collector.Source {
	return collector.Source{
		Command: c.Ioreg.Command,
		Args:    append([]string(nil), c.Ioreg.Args...),
		Timeout: secondsDuration(c.Ioreg.TimeoutSeconds),
	}
}

// Variant returns the configured variant, or Snapshot if it is unknown.
func (c *Config) Variant() collector.Variant {
	v, err := collector.VariantByName(c.Ioreg.Variant)
	if err != nil {
		return collector.Snapshot
	}
	return v
}

func (c *Config) CollectionInterval() time.Duration {
	return secondsDuration(c.Collection.IntervalSeconds)
}

func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Cleanup.IntervalHours) * time.Hour
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.Cleanup.RetentionDays) * 24 * time.Hour
}

func Save(path string, cfg *Config) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("config path must not be empty")
	}

	sanitized, err := NormalizeAndValidate(cfg)
	if err != nil {
		return err
	}

	var data bytes.Buffer
	if err := Encode(&data, sanitized); err != nil {
		return err
	}

	dir := filepath.Dir(trimmedPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data.Bytes()); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, trimmedPath); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	tmpPath = ""

	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config TOML: %w", err)
	}
	return nil
}

func secondsDuration(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func sanitizePath(name, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s must not be empty", name)
	}
	cleaned := filepath.Clean(trimmed)
	if !filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%s must be an absolute path, got %q", name, value)
	}
	return cleaned, nil
}

func validateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, min, max, value)
	}

	return nil
}
