package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/githeat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals restores the package-level manager between tests.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &RunStoreManager{}
	t.Cleanup(func() {
		CloseRunTracking()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &RunStoreManager{}
	})
}

func TestInitRunTracking(t *testing.T) {
	t.Run("sqlite file", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "runs.db")

		require.NoError(t, InitRunTracking(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetRunStore())

		// Later calls are ignored
		require.NoError(t, InitRunTracking(schema.DatabaseBackend("bogus"), ""))
		CloseRunTracking()
		CloseRunTracking()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("empty backend leaves tracking off", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitRunTracking("", ""))
		assert.Nil(t, Manager.GetRunStore())
	})

	t.Run("bad backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitRunTracking(schema.DatabaseBackend("bogus"), "")
		assert.ErrorContains(t, err, "failed to initialize run tracking")
		assert.Nil(t, Manager.GetRunStore())
	})
}

func TestManagerConcurrency(t *testing.T) {
	resetGlobals(t)
	require.NoError(t, InitRunTracking(schema.SQLiteBackend, ":memory:"))

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			store := Manager.GetRunStore()
			if assert.NotNil(t, store) {
				_, _, err := store.BeginRun(refTime, sampleResult(), nil)
				assert.NoError(t, err)
			}
		})
	}
	wg.Wait()

	status, err := Manager.GetRunStore().GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 10, status.TotalRuns)
}

func TestClearRuns(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "runs.db")
		store, err := NewRunStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearRuns(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite empty path", func(t *testing.T) {
		assert.Error(t, ClearRuns(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearRuns(schema.DatabaseBackend("oracle"), "", ""))
	})
}
