package mocks

import (
	"context"
	"sync"

	"github.com/foodbridge-api/internal/events"
)

// MockPublisher records published events
type MockPublisher struct {
	mu         sync.Mutex
	Events     []events.Event
	PublishErr error
	Closed     bool
}

// Verify interface compliance
var _ events.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make([]events.Event, 0)}
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Types returns the types of recorded events in publish order
func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Type)
	}
	return types
}
