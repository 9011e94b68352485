package commands

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/colonyops/callbell/internal/app"
	"github.com/colonyops/callbell/internal/core/config"
)

// AppName names the config, data and log directories.
const AppName = "callbell"

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	EnvFile    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// Deps is filled by the root Before hook. Commands that need the engine read
// App from it at run time.
type Deps struct {
	App *app.App
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/callbell/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/callbell.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultLogFile returns $XDG_STATE_HOME/callbell/callbell.log.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}
