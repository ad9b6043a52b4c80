package mocks

import (
	"context"
	"sync"

	"github.com/foodbridge-api/internal/session"
)

// MockStorage is a mock implementation of session.Storage with injectable failures
type MockStorage struct {
	mu        sync.Mutex
	Items     map[string]string
	GetErr    error
	SetErr    error
	RemoveErr error
	SetCalls  int
}

// Verify interface compliance
var _ session.Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{Items: make(map[string]string)}
}

func (m *MockStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Items[key]
	return v, ok, nil
}

func (m *MockStorage) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Items[key] = value
	return nil
}

func (m *MockStorage) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Items, key)
	return nil
}
