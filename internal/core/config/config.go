// Package config handles configuration loading and validation for callbell.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Poll     PollConfig     `yaml:"poll"`
	Reminder ReminderConfig `yaml:"reminder"`
	Audio    AudioConfig    `yaml:"audio"`
	Desktop  DesktopConfig  `yaml:"desktop"`
	Dial     DialConfig     `yaml:"dial"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// APIConfig describes how to reach the call-reminder backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// CSRFToken and SessionID seed the cookie jar so an already
	// authenticated browser session can be reused.
	CSRFToken string `yaml:"csrf_token"`
	SessionID string `yaml:"session_id"`
}

// PollConfig controls the reminder poller.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ReminderConfig tunes the notification store.
type ReminderConfig struct {
	Capacity   int           `yaml:"capacity"`
	Expiry     time.Duration `yaml:"expiry"`
	CloseDelay time.Duration `yaml:"close_delay"`
}

// AudioConfig configures alert playback.
type AudioConfig struct {
	// Asset is an explicit path to the primary sound. When empty the first
	// file in AssetDir matching AssetGlob is used.
	Asset     string `yaml:"asset"`
	AssetDir  string `yaml:"asset_dir"`
	AssetGlob string `yaml:"asset_glob"`
	// Player forces a specific player binary (paplay, aplay, afplay).
	Player string `yaml:"player"`
}

// DesktopConfig enables OS notifications in addition to the terminal.
type DesktopConfig struct {
	Enabled bool   `yaml:"enabled"`
	Command string `yaml:"command"`
}

// DialConfig configures how tel: URIs are launched.
type DialConfig struct {
	Opener string `yaml:"opener"`
}

// DatabaseConfig holds local state database settings.
type DatabaseConfig struct {
	BusyTimeout int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			Interval: 2 * time.Second,
		},
		Reminder: ReminderConfig{
			Capacity:   10,
			Expiry:     15 * time.Minute,
			CloseDelay: 300 * time.Millisecond,
		},
		Audio: AudioConfig{
			AssetGlob: "**/notification.{mp3,wav,ogg}",
		},
		Desktop: DesktopConfig{
			Command: "notify-send",
		},
		Dial: DialConfig{
			Opener: defaultOpener(),
		},
		Database: DatabaseConfig{
			BusyTimeout: 5000,
		},
	}
}

func defaultOpener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = defaults.Poll.Interval
	}
	if c.Reminder.Capacity == 0 {
		c.Reminder.Capacity = defaults.Reminder.Capacity
	}
	if c.Reminder.Expiry == 0 {
		c.Reminder.Expiry = defaults.Reminder.Expiry
	}
	if c.Reminder.CloseDelay == 0 {
		c.Reminder.CloseDelay = defaults.Reminder.CloseDelay
	}
	if c.Audio.AssetGlob == "" {
		c.Audio.AssetGlob = defaults.Audio.AssetGlob
	}
	if c.Audio.AssetDir == "" && c.DataDir != "" {
		c.Audio.AssetDir = filepath.Join(c.DataDir, "sounds")
	}
	if c.Desktop.Command == "" {
		c.Desktop.Command = defaults.Desktop.Command
	}
	if c.Dial.Opener == "" {
		c.Dial.Opener = defaults.Dial.Opener
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// StateFile returns the path to the local state database.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "callbell.db")
}
