package push

import (
	"context"
	"fmt"
	"sync"

	"github.com/busradar/busradar/core/model"
	corepush "github.com/busradar/busradar/core/push"
)

// MockSender is a simple sender used in tests.
type MockSender struct {
	mu sync.Mutex
	// Sent records delivered payloads keyed by subscription endpoint.
	Sent map[string][]corepush.Payload
	// FailEndpoints simulates transport failures for these endpoints.
	FailEndpoints map[string]bool
}

// NewMockSender creates a new MockSender.
func NewMockSender() *MockSender {
	return &MockSender{
		Sent:          make(map[string][]corepush.Payload),
		FailEndpoints: make(map[string]bool),
	}
}

// Send records the payload or returns an error if configured to fail.
func (m *MockSender) Send(_ context.Context, sub model.PushSubscription, payload corepush.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailEndpoints[sub.Endpoint] {
		return fmt.Errorf("delivery failed")
	}
	m.Sent[sub.Endpoint] = append(m.Sent[sub.Endpoint], payload)
	return nil
}

// Deliveries returns the total number of recorded deliveries.
func (m *MockSender) Deliveries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msgs := range m.Sent {
		n += len(msgs)
	}
	return n
}
