package stores

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/colonyops/callbell/internal/data/db"
	"github.com/colonyops/callbell/pkg/clock"
)

var testEpoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "callbell.db"), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func newTestKVStore(t *testing.T) (*KVStore, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(testEpoch)
	return NewKVStore(openTestDB(t)).WithClock(clk), clk
}
