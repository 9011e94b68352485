package stores

import (
	"context"
	"fmt"

	"github.com/colonyops/callbell/internal/core/kv"
	"github.com/colonyops/callbell/internal/core/settings"
)

const (
	keyDarkTheme    = "dark_theme"
	keyLastSettings = "last_settings"
)

// StateStore keeps client-side preferences that must survive restarts even
// when the backend is unreachable.
type StateStore struct {
	ui       *kv.TypedKV[bool]
	settings *kv.TypedKV[settings.Settings]
}

func NewStateStore(store kv.KV) *StateStore {
	return &StateStore{
		ui:       kv.Scoped[bool](store, "ui"),
		settings: kv.Scoped[settings.Settings](store, "settings"),
	}
}

// DarkTheme returns the stored theme choice, or fallback when none is stored.
func (s *StateStore) DarkTheme(ctx context.Context, fallback bool) (bool, error) {
	v, err := s.ui.GetOr(ctx, keyDarkTheme, fallback)
	if err != nil {
		return fallback, fmt.Errorf("read theme: %w", err)
	}
	return v, nil
}

func (s *StateStore) SetDarkTheme(ctx context.Context, dark bool) error {
	if err := s.ui.Set(ctx, keyDarkTheme, dark); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// LastSettings returns the most recent settings snapshot read from the
// backend. ok is false when none was saved.
func (s *StateStore) LastSettings(ctx context.Context) (settings.Settings, bool, error) {
	has, err := s.settings.Has(ctx, keyLastSettings)
	if err != nil || !has {
		return settings.Settings{}, false, err
	}
	v, err := s.settings.Get(ctx, keyLastSettings)
	if err != nil {
		return settings.Settings{}, false, fmt.Errorf("read settings snapshot: %w", err)
	}
	return v, true, nil
}

func (s *StateStore) SaveSettings(ctx context.Context, snap settings.Settings) error {
	if err := s.settings.Set(ctx, keyLastSettings, snap); err != nil {
		return fmt.Errorf("save settings snapshot: %w", err)
	}
	if err := s.SetDarkTheme(ctx, snap.DarkTheme); err != nil {
		return err
	}
	return nil
}
