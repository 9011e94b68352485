package config

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Validate checks structural validity of the configuration.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}
	if err := validBaseURL(c.API.BaseURL); err != nil {
		errs = errs.Append("api.base_url", err)
	}
	if c.API.Timeout < 0 {
		errs = errs.Append("api.timeout", fmt.Errorf("must not be negative"))
	}
	if c.Poll.Interval <= 0 {
		errs = errs.Append("poll.interval", fmt.Errorf("must be positive"))
	}
	if c.Reminder.Capacity < 1 {
		errs = errs.Append("reminder.capacity", fmt.Errorf("must be at least 1"))
	}
	if c.Reminder.Expiry <= 0 {
		errs = errs.Append("reminder.expiry", fmt.Errorf("must be positive"))
	}
	if c.Reminder.CloseDelay < 0 {
		errs = errs.Append("reminder.close_delay", fmt.Errorf("must not be negative"))
	}
	if !doublestar.ValidatePattern(c.Audio.AssetGlob) {
		errs = errs.Append("audio.asset_glob", fmt.Errorf("invalid glob %q", c.Audio.AssetGlob))
	}
	switch c.Audio.Player {
	case "", "paplay", "aplay", "afplay":
	default:
		errs = errs.Append("audio.player", fmt.Errorf("unsupported player %q", c.Audio.Player))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must not be negative"))
	}

	return errs.ToError()
}

func validBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// ValidateDeep performs Validate plus checks that touch the filesystem: the
// config file, the data directory, the sound asset and the external commands.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	errs := []error{
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("audio.asset", c.Audio.Asset, fileExistsOrEmpty),
		criterio.Run("dial.opener", c.Dial.Opener, executableExists),
	}
	if c.Desktop.Enabled {
		errs = append(errs, criterio.Run("desktop.command", c.Desktop.Command, executableExists))
	}
	if c.Audio.Player != "" {
		errs = append(errs, criterio.Run("audio.player", c.Audio.Player, executableExists))
	}

	return criterio.ValidateStruct(errs...)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

func fileExistsOrEmpty(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("is a directory")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
