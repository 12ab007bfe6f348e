package iocache

import (
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, result *schema.AnalysisResult, configParams map[string]any) (int64, string, error) {
	args := m.Called(startTime, result, configParams)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalFiles int) error {
	return m.Called(runID, endTime, totalFiles).Error(0)
}

// RecordFileMetrics implements the RunStore interface.
func (m *MockRunStore) RecordFileMetrics(runID int64, filePath string, metrics schema.FileMetrics) error {
	return m.Called(runID, filePath, metrics).Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllFileMetrics implements the RunStore interface.
func (m *MockRunStore) GetAllFileMetrics() ([]schema.FileMetricsRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.FileMetricsRecord)
	return rows, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	return m.Called().Error(0)
}
