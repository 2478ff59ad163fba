package state

import (
	"context"
	"slices"
	"sync"
)

// Mock is a test double for Manager. Deferred saves are recorded
// immediately. It is safe for concurrent use.
type Mock struct {
	mu         sync.Mutex
	queueState *QueueState
	saves      []QueueState
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetQueue(context.Context) (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueState, nil
}

func (m *Mock) SaveQueue(_ context.Context, state QueueState) error {
	m.SaveQueueDeferred(state)
	return nil
}

func (m *Mock) SaveQueueDeferred(state QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueState = &state
	m.saves = append(m.saves, state)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetQueue(state *QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueState = state
}

// Saves returns every state saved so far.
func (m *Mock) Saves() []QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.saves)
}

// LastSave returns the most recent save, or nil.
func (m *Mock) LastSave() *QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	s := m.saves[len(m.saves)-1]
	return &s
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
