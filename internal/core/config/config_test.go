package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 10, cfg.Reminder.Capacity)
	assert.Equal(t, 15*time.Minute, cfg.Reminder.Expiry)
	assert.Equal(t, 300*time.Millisecond, cfg.Reminder.CloseDelay)
	assert.Equal(t, filepath.Join(dataDir, "sounds"), cfg.Audio.AssetDir)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
}

func TestLoad_OverridesAndKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://calls.example.com
  csrf_token: abc
poll:
  interval: 5s
desktop:
  enabled: true
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://calls.example.com", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.CSRFToken)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.True(t, cfg.Desktop.Enabled)
	assert.Equal(t, "notify-send", cfg.Desktop.Command)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
}

func TestLoad_DataDirNotReadFromFile(t *testing.T) {
	path := writeConfig(t, "DataDir: /elsewhere\n")
	dataDir := t.TempDir()

	cfg, err := Load(path, dataDir)
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "poll: [unclosed\n")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "negative interval", body: "poll:\n  interval: -1s\n", wantErr: "poll.interval"},
		{name: "bad scheme", body: "api:\n  base_url: ftp://x\n", wantErr: "api.base_url"},
		{name: "negative capacity", body: "reminder:\n  capacity: -3\n", wantErr: "reminder.capacity"},
		{name: "unknown player", body: "audio:\n  player: winamp\n", wantErr: "audio.player"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStateFile(t *testing.T) {
	cfg := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "callbell.db"), cfg.StateFile())
}
