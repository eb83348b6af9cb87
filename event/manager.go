package event

import (
	"sync"

	"github.com/bethropolis/ebb/internal/logger"
)

// Handler is the function signature for subscribers. Returning true marks
// the event as consumed; the manager currently ignores the value but keeps
// the signature for forward compatibility.
type Handler func(e Event) bool

// Manager routes events to subscribers. Dispatch is synchronous and runs
// handlers on the caller's goroutine.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates an empty event manager.
func NewManager() *Manager {
	return &Manager{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for one event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Dispatch delivers an event to every handler registered for its type.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	logger.Debugf("event: dispatching type %v to %d handler(s)", eventType, len(handlers))

	// Copy so a handler subscribing during dispatch cannot race the slice.
	snapshot := make([]Handler, len(handlers))
	copy(snapshot, handlers)
	for _, handler := range snapshot {
		handler(Event{Type: eventType, Data: data})
	}
}
