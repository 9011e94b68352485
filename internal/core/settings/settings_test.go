package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fetcherFunc func(ctx context.Context) (Settings, error)

func (f fetcherFunc) FetchSettings(ctx context.Context) (Settings, error) { return f(ctx) }

func TestGain(t *testing.T) {
	tests := []struct {
		volume int
		want   float64
	}{
		{100, 1},
		{50, 0.5},
		{0, 0},
		{-20, 0},
		{250, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Settings{Volume: tt.volume}.Gain(), 1e-9, "volume %d", tt.volume)
	}
}

func TestHolder_Load_fallsBackToDefaults(t *testing.T) {
	h := NewHolder(Settings{SoundEnabled: false, Volume: 3, DarkTheme: true})

	got := h.Load(context.Background(), fetcherFunc(func(context.Context) (Settings, error) {
		return Settings{}, errors.New("connection refused")
	}), zerolog.Nop())

	assert.Equal(t, Defaults(), got)
	assert.Equal(t, Settings{SoundEnabled: true, Volume: 100, DarkTheme: false}, h.Get())
}

func TestHolder_Load_installsFetched(t *testing.T) {
	h := NewHolder(Defaults())
	want := Settings{SoundEnabled: false, Volume: 40, DarkTheme: true}

	got := h.Load(context.Background(), fetcherFunc(func(context.Context) (Settings, error) {
		return want, nil
	}), zerolog.Nop())

	assert.Equal(t, want, got)
	assert.Equal(t, want, h.Get())
}

func TestHolder_Set_replacesWholesaleAndNotifies(t *testing.T) {
	h := NewHolder(Defaults())

	var seen []Settings
	h.OnChange(func(s Settings) { seen = append(seen, s) })

	next := Settings{SoundEnabled: false, Volume: 10, DarkTheme: true}
	h.Set(next)

	assert.Equal(t, next, h.Get())
	assert.Equal(t, []Settings{next}, seen)
}

func TestHolder_ConcurrentReadsSeeWholeSnapshots(t *testing.T) {
	a := Settings{SoundEnabled: true, Volume: 100, DarkTheme: false}
	b := Settings{SoundEnabled: false, Volume: 0, DarkTheme: true}
	h := NewHolder(a)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			if i%2 == 0 {
				h.Set(b)
			} else {
				h.Set(a)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			s := h.Get()
			assert.True(t, s == a || s == b, "torn read: %+v", s)
		}
	}()
	wg.Wait()
}
