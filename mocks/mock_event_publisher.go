package mocks

import (
	"sync"

	"github.com/google/uuid"

	"indentflow/internal/domain"
)

// RecordingPublisher is a port.EventPublisher that keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *RecordingPublisher) Publish(_ uuid.UUID, event domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of the published events in order.
func (p *RecordingPublisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Actions returns the action of every published event in order.
func (p *RecordingPublisher) Actions() []string {
	events := p.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Action
	}
	return out
}
