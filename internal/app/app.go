// Package app assembles the reminder engine from configuration: backend
// client, settings, notification store, poller, audio alerter, action
// dispatcher, toast queue and local state.
package app

import (
	"context"
	"fmt"

	"github.com/colonyops/callbell/internal/api"
	"github.com/colonyops/callbell/internal/audio"
	"github.com/colonyops/callbell/internal/core/config"
	"github.com/colonyops/callbell/internal/core/eventbus"
	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/internal/core/toast"
	"github.com/colonyops/callbell/internal/data/db"
	"github.com/colonyops/callbell/internal/data/stores"
	"github.com/colonyops/callbell/internal/desktop"
	"github.com/colonyops/callbell/internal/dispatch"
	"github.com/colonyops/callbell/internal/poller"
	"github.com/colonyops/callbell/pkg/clock"
	"github.com/colonyops/callbell/pkg/executil"
)

// App holds the long-lived components shared by the commands.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Client   *api.Client
	Bus      *eventbus.EventBus
	Settings *settings.Holder
	Toasts   *toast.Queue
	Alerter  *audio.Alerter
	KV       *stores.KVStore
	State    *stores.StateStore
	History  *stores.HistoryStore
	Exec     executil.Executor
	Clock    clock.Clock

	// Set by Start.
	Store      *reminder.Store
	Poller     *poller.Poller
	Dispatcher *dispatch.Dispatcher
}

// New wires the components that do not depend on a display surface.
func New(cfg *config.Config, database *db.DB, exec executil.Executor) (*App, error) {
	client, err := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		CSRFToken: cfg.API.CSRFToken,
		SessionID: cfg.API.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	kvStore := stores.NewKVStore(database)
	holder := settings.NewHolder(settings.Defaults())
	clk := clock.Real{}

	a := &App{
		Config:   cfg,
		DB:       database,
		Client:   client,
		Bus:      eventbus.New(64),
		Settings: holder,
		Toasts:   toast.NewQueue(clk),
		KV:       kvStore,
		State:    stores.NewStateStore(kvStore),
		History:  stores.NewHistoryStore(database),
		Exec:     exec,
		Clock:    clk,
	}

	var player audio.Player
	if p, err := audio.DetectPlayer(exec, cfg.Audio.Player); err != nil {
		audioLog := logging.Component("audio")
		audioLog.Warn().Err(err).Msg("no audio player found, alerts will be silent")
	} else {
		player = p
	}

	a.Alerter = audio.NewAlerter(audio.Options{
		Settings: holder,
		Player:   player,
		Asset: audio.AssetResolver{
			Path:       cfg.Audio.Asset,
			Dir:        cfg.Audio.AssetDir,
			Glob:       cfg.Audio.AssetGlob,
			Remote:     client,
			RemotePath: api.PathSound,
		},
		Clock:  clk,
		Logger: logging.Component("audio"),
	})

	eventbus.RegisterDebugLogger(a.Bus, logging.Component("eventbus"))
	return a, nil
}

// LoadSettings seeds the holder from the last saved snapshot, then fetches
// the backend's current settings. A backend failure installs the defaults
// and is not fatal. Every later change is persisted locally.
func (a *App) LoadSettings(ctx context.Context) settings.Settings {
	logger := logging.Component("settings")

	if last, ok, err := a.State.LastSettings(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to read saved settings")
	} else if ok {
		a.Settings.Set(last)
	}

	s := a.Settings.Load(ctx, a.Client, logger)

	a.Settings.OnChange(func(s settings.Settings) {
		if err := a.State.SaveSettings(context.Background(), s); err != nil {
			logger.Warn().Err(err).Msg("failed to persist settings")
		}
	})
	if err := a.State.SaveSettings(ctx, s); err != nil {
		logger.Warn().Err(err).Msg("failed to persist settings")
	}

	a.Bus.SubscribeSettingsUpdated(func(p eventbus.SettingsUpdatedPayload) {
		a.Settings.Set(p.Settings)
	})
	return s
}

// Start builds the notification store over renderer and the poller and
// dispatcher that feed and drain it. It does not begin polling.
func (a *App) Start(renderer reminder.Renderer) {
	cfg := a.Config

	a.Store = reminder.NewStore(renderer, a.Alerter, reminder.Options{
		Capacity:   cfg.Reminder.Capacity,
		Expiry:     cfg.Reminder.Expiry,
		CloseDelay: cfg.Reminder.CloseDelay,
		Clock:      a.Clock,
		Logger:     logging.Component("reminder"),
	})

	a.Poller = poller.New(a.Client, a.Store, cfg.Poll.Interval, logging.Component("poller"))

	a.Dispatcher = dispatch.New(dispatch.Options{
		Poster:    a.Client,
		Closer:    a.Store,
		Publisher: a.Bus,
		Toasts:    a.Toasts,
		Launcher:  dispatch.ExecLauncher{Exec: a.Exec, Opener: cfg.Dial.Opener},
		Recorder:  a.History,
		Logger:    logging.Component("dispatch"),
	})
}

// Renderers returns extra display surfaces enabled by configuration.
func (a *App) Renderers() reminder.Fanout {
	var out reminder.Fanout
	if a.Config.Desktop.Enabled {
		out = append(out, desktop.New(a.Exec, a.Config.Desktop.Command, logging.Component("desktop")))
	}
	return out
}

