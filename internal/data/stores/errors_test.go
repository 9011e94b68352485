package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverFromCorruption_Success(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "callbell.db")

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm data"), 0o644))

	backup, err := RecoverFromCorruption(dbPath)
	require.NoError(t, err)
	require.NotEmpty(t, backup)
	assert.True(t, strings.HasPrefix(filepath.Base(backup), "callbell.db.corrupt."))

	assert.FileExists(t, backup)
	assert.FileExists(t, backup+"-wal")
	assert.FileExists(t, backup+"-shm")

	assert.NoFileExists(t, dbPath)
	assert.NoFileExists(t, dbPath+"-wal")
	assert.NoFileExists(t, dbPath+"-shm")
}

func TestRecoverFromCorruption_MissingFile(t *testing.T) {
	dir := t.TempDir()

	backup, err := RecoverFromCorruption(filepath.Join(dir, "callbell.db"))
	require.NoError(t, err)
	assert.Empty(t, backup)

	files, _ := filepath.Glob(filepath.Join(dir, "*.corrupt.*"))
	assert.Empty(t, files)
}

func TestRecoverFromCorruption_OrphanWAL(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "callbell.db")
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))

	backup, err := RecoverFromCorruption(dbPath)
	require.NoError(t, err)
	assert.Empty(t, backup)
	assert.NoFileExists(t, dbPath+"-wal", "orphaned WAL must not survive")
}

func TestIsCorruptionError_Message(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.True(t, IsCorruptionError(fmt.Errorf("open: %w", errors.New("file is not a database"))))
	assert.False(t, IsCorruptionError(errors.New("no such table: kv_store")))
}

func TestIsBusyError_NonSQLite(t *testing.T) {
	assert.False(t, IsBusyError(errors.New("busy")))
}
