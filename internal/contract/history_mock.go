package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockHistoryOpener is a mock implementation of HistoryOpener for testing.
type MockHistoryOpener struct {
	mock.Mock
}

var _ HistoryOpener = &MockHistoryOpener{} // Compile-time check

// FindEnclosingHistoryStore implements the HistoryOpener interface.
func (m *MockHistoryOpener) FindEnclosingHistoryStore(ctx context.Context, path string) (HistoryStore, error) {
	ret := m.Called(ctx, path)
	store, _ := ret.Get(0).(HistoryStore)
	return store, ret.Error(1)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// Root implements the HistoryStore interface.
func (m *MockHistoryStore) Root() string {
	return m.Called().String(0)
}

// LastChange implements the HistoryStore interface.
func (m *MockHistoryStore) LastChange(ctx context.Context, rel string, until time.Time) (time.Time, error) {
	ret := m.Called(ctx, rel, until)
	t, _ := ret.Get(0).(time.Time)
	return t, ret.Error(1)
}

// CountChanges implements the HistoryStore interface.
func (m *MockHistoryStore) CountChanges(ctx context.Context, rel string, since, until time.Time) (int, error) {
	ret := m.Called(ctx, rel, since, until)
	return ret.Int(0), ret.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}
