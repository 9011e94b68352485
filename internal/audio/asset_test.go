package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	body  string
	err   error
	calls int
}

func (d *fakeDownloader) Download(_ context.Context, _ string, w io.Writer) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	_, err := io.WriteString(w, d.body)
	return err
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestAssetResolver_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bell.wav")
	touch(t, path)

	got, err := AssetResolver{Path: path}.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = AssetResolver{Path: path + ".missing"}.Resolve(context.Background())
	require.Error(t, err)
}

func TestAssetResolver_GlobInDir(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "themes", "classic", "notification.ogg"))
	touch(t, filepath.Join(dir, "other.mp3"))

	got, err := AssetResolver{Dir: dir, Glob: "**/notification.{mp3,wav,ogg}"}.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "themes", "classic", "notification.ogg"), got)
}

func TestAssetResolver_DownloadsAndCaches(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sounds")
	dl := &fakeDownloader{body: "ID3"}
	r := AssetResolver{Dir: dir, Glob: "**/notification.{mp3,wav,ogg}", Remote: dl, RemotePath: "/static/sounds/notification.mp3"}

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notification.mp3"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(data))

	// second lookup hits the cached file
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dl.calls)
}

func TestAssetResolver_DownloadFailure(t *testing.T) {
	dir := t.TempDir()
	r := AssetResolver{Dir: dir, Glob: "*.mp3", Remote: &fakeDownloader{err: errors.New("404")}, RemotePath: "/static/sounds/notification.mp3"}

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial download cleaned up")
}

func TestAssetResolver_NothingConfigured(t *testing.T) {
	_, err := AssetResolver{}.Resolve(context.Background())
	require.ErrorIs(t, err, ErrNoAsset)
}
