package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/core/settings"
)

func TestStateStore_DarkTheme(t *testing.T) {
	ctx := context.Background()
	kvs, _ := newTestKVStore(t)
	state := NewStateStore(kvs)

	dark, err := state.DarkTheme(ctx, true)
	require.NoError(t, err)
	assert.True(t, dark, "fallback used when unset")

	require.NoError(t, state.SetDarkTheme(ctx, false))

	dark, err = state.DarkTheme(ctx, true)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestStateStore_LastSettings(t *testing.T) {
	ctx := context.Background()
	kvs, _ := newTestKVStore(t)
	state := NewStateStore(kvs)

	_, ok, err := state.LastSettings(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	snap := settings.Settings{SoundEnabled: false, Volume: 35, DarkTheme: true}
	require.NoError(t, state.SaveSettings(ctx, snap))

	got, ok, err := state.LastSettings(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	dark, err := state.DarkTheme(ctx, false)
	require.NoError(t, err)
	assert.True(t, dark, "saving a snapshot also records the theme")
}
