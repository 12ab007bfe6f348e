// Package iocache persists analysis runs to a SQL database.
package iocache

import (
	"sync"

	"github.com/huangsam/githeat/internal/contract"
)

// RunStoreManager owns the run store used for tracking analyses.
type RunStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &RunStoreManager{} // Compile-time check

// GetRunStore returns the run store, or nil when tracking was never initialized.
func (mgr *RunStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
