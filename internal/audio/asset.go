package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoAsset is returned when no primary sound file can be located.
var ErrNoAsset = errors.New("no notification sound found")

// Downloader fetches a remote file into w.
type Downloader interface {
	Download(ctx context.Context, path string, w io.Writer) error
}

// AssetResolver locates the primary notification sound. Lookup order: the
// explicit path, the first match of Glob under Dir, then a one-time download
// from the backend cached into Dir.
type AssetResolver struct {
	Path       string
	Dir        string
	Glob       string
	Remote     Downloader
	RemotePath string
}

// Resolve returns a local path to the sound.
func (r AssetResolver) Resolve(ctx context.Context) (string, error) {
	if r.Path != "" {
		if _, err := os.Stat(r.Path); err != nil {
			return "", fmt.Errorf("sound asset: %w", err)
		}
		return r.Path, nil
	}

	if r.Dir != "" && r.Glob != "" {
		matches, err := doublestar.Glob(os.DirFS(r.Dir), r.Glob, doublestar.WithFilesOnly())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("glob %s: %w", r.Glob, err)
		}
		if len(matches) > 0 {
			return filepath.Join(r.Dir, filepath.FromSlash(matches[0])), nil
		}
	}

	if r.Remote == nil || r.RemotePath == "" || r.Dir == "" {
		return "", ErrNoAsset
	}
	return r.download(ctx)
}

func (r AssetResolver) download(ctx context.Context) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create sound dir: %w", err)
	}

	dst := filepath.Join(r.Dir, filepath.Base(r.RemotePath))
	tmp, err := os.CreateTemp(r.Dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := r.Remote.Download(ctx, r.RemotePath, tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("download sound: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write sound: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("store sound: %w", err)
	}
	return dst, nil
}
