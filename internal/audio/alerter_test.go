package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/pkg/clock"
	"github.com/colonyops/callbell/pkg/executil"
)

type stubResolver struct {
	path string
	err  error
}

func (r stubResolver) Resolve(context.Context) (string, error) { return r.path, r.err }

type alerterFixture struct {
	alerter *Alerter
	exec    *executil.RecordingExecutor
	clock   *clock.Fake
	holder  *settings.Holder
	tmp     string
}

func newAlerter(t *testing.T, res Resolver, s settings.Settings) *alerterFixture {
	t.Helper()
	exec := &executil.RecordingExecutor{}
	player, err := DetectPlayer(exec, "paplay")
	require.NoError(t, err)

	f := &alerterFixture{
		exec:   exec,
		clock:  clock.NewFake(time.Unix(0, 0)),
		holder: settings.NewHolder(s),
		tmp:    t.TempDir(),
	}
	f.alerter = NewAlerter(Options{
		Settings: f.holder,
		Player:   player,
		Asset:    res,
		Clock:    f.clock,
		Logger:   zerolog.Nop(),
		TempDir:  f.tmp,
	})
	return f
}

func TestAlerter_LockedDoesNotPlay(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/sounds/a.mp3"}, settings.Defaults())

	f.alerter.Play(context.Background())

	assert.Empty(t, f.exec.Recorded())
}

func TestAlerter_SoundDisabled(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/sounds/a.mp3"}, settings.Settings{SoundEnabled: false, Volume: 100})
	f.alerter.Unlock()

	f.alerter.Play(context.Background())

	assert.Empty(t, f.exec.Recorded())
}

func TestAlerter_PlaysPrimaryAtGain(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/sounds/a.mp3"}, settings.Settings{SoundEnabled: true, Volume: 50})
	f.alerter.Unlock()

	f.alerter.Play(context.Background())

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "paplay", cmds[0].Cmd)
	assert.Equal(t, []string{"--volume", "32768", "/sounds/a.mp3"}, cmds[0].Args)
}

func TestAlerter_ReadsLatestSettings(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/sounds/a.mp3"}, settings.Defaults())
	f.alerter.Unlock()

	f.holder.Set(settings.Settings{SoundEnabled: true, Volume: 0})
	f.alerter.Play(context.Background())

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "0", cmds[0].Args[1])
}

func TestAlerter_FallbackToneWhenAssetMissing(t *testing.T) {
	f := newAlerter(t, stubResolver{err: ErrNoAsset}, settings.Defaults())
	f.alerter.Unlock()

	var existedDuringPlay bool
	f.exec.OnRun = func(rc executil.RecordedCommand) {
		_, err := os.Stat(rc.Args[len(rc.Args)-1])
		existedDuringPlay = err == nil
	}

	f.alerter.Play(context.Background())

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 1)
	tone := cmds[0].Args[len(cmds[0].Args)-1]
	assert.Equal(t, f.tmp, filepath.Dir(tone))
	assert.True(t, existedDuringPlay)

	// kept until the release delay has passed
	_, err := os.Stat(tone)
	require.NoError(t, err)

	f.clock.Advance(ReleaseDelay)
	_, err = os.Stat(tone)
	assert.True(t, os.IsNotExist(err))
}

func TestAlerter_FallbackToneAppliesGainOnce(t *testing.T) {
	f := newAlerter(t, stubResolver{err: ErrNoAsset}, settings.Settings{SoundEnabled: true, Volume: 50})
	f.alerter.Unlock()

	var wav []byte
	f.exec.OnRun = func(rc executil.RecordedCommand) {
		data, err := os.ReadFile(rc.Args[len(rc.Args)-1])
		if err == nil {
			wav = data
		}
	}

	f.alerter.Play(context.Background())

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 1)
	assert.Equal(t, "65536", cmds[0].Args[1], "tone plays at unity volume")

	require.Greater(t, len(wav), 44)
	peak := 0
	for i := 44; i+1 < len(wav); i += 2 {
		v := int(int16(binary.LittleEndian.Uint16(wav[i:])))
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	assert.InDelta(t, math.MaxInt16/2, peak, 50, "samples scaled by volume/100")
}

func TestAlerter_FallbackWhenPrimaryPlaybackFails(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/sounds/broken.mp3"}, settings.Defaults())
	f.alerter.Unlock()
	f.exec.Errors = map[string]error{"paplay": errors.New("decode error")}

	assert.NotPanics(t, func() { f.alerter.Play(context.Background()) })

	cmds := f.exec.Recorded()
	require.Len(t, cmds, 2, "primary then fallback")
	assert.Equal(t, "/sounds/broken.mp3", cmds[0].Args[len(cmds[0].Args)-1])
	assert.Contains(t, cmds[1].Args[len(cmds[1].Args)-1], "callbell-tone-")

	f.clock.Advance(ReleaseDelay)
	entries, err := os.ReadDir(f.tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "tone file removed even when playback failed")
}

func TestAlerter_UnlockIdempotent(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/a.mp3"}, settings.Defaults())

	assert.False(t, f.alerter.Unlocked())
	f.alerter.Unlock()
	f.alerter.Unlock()
	assert.True(t, f.alerter.Unlocked())
}

func TestAlerter_AlertIsAsync(t *testing.T) {
	f := newAlerter(t, stubResolver{path: "/a.mp3"}, settings.Defaults())
	f.alerter.Unlock()

	f.alerter.Alert()
	f.alerter.Alert()
	f.alerter.Wait()

	assert.Len(t, f.exec.Recorded(), 2)
}

func TestDetectPlayer(t *testing.T) {
	t.Run("preference order", func(t *testing.T) {
		exec := &executil.RecordingExecutor{Available: map[string]bool{"aplay": true, "afplay": true}}
		p, err := DetectPlayer(exec, "")
		require.NoError(t, err)
		assert.Equal(t, "afplay", p.Name())
	})

	t.Run("forced player missing", func(t *testing.T) {
		exec := &executil.RecordingExecutor{Available: map[string]bool{}}
		_, err := DetectPlayer(exec, "paplay")
		require.Error(t, err)
	})

	t.Run("none available", func(t *testing.T) {
		exec := &executil.RecordingExecutor{Available: map[string]bool{}}
		_, err := DetectPlayer(exec, "")
		require.ErrorIs(t, err, ErrNoPlayer)
	})
}

func TestPlayerArgs(t *testing.T) {
	assert.Equal(t, []string{"--volume", "65536", "x.wav"}, playerArgs("paplay", "x.wav", 1))
	assert.Equal(t, []string{"-v", "0.25", "x.wav"}, playerArgs("afplay", "x.wav", 0.25))
	assert.Equal(t, []string{"-q", "x.wav"}, playerArgs("aplay", "x.wav", 0.25))
}
