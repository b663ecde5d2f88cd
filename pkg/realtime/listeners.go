package realtime

import (
	"encoding/json"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Abraxas-365/taskboard/pkg/logx"
)

type listener struct {
	id ListenerID
	h  Handler
}

// Listeners is a concurrency-safe registry of event handlers. Handlers run
// synchronously in registration order; a panicking handler is logged and
// does not stop the others.
type Listeners struct {
	mu      sync.RWMutex
	byEvent map[string][]listener
	nextID  atomic.Uint64
}

// NewListeners creates an empty registry.
func NewListeners() *Listeners {
	return &Listeners{byEvent: make(map[string][]listener)}
}

// On registers h for event. A nil handler is ignored and yields ID 0.
func (l *Listeners) On(event string, h Handler) ListenerID {
	if h == nil {
		return 0
	}
	id := ListenerID(l.nextID.Add(1))

	l.mu.Lock()
	defer l.mu.Unlock()
	l.byEvent[event] = append(l.byEvent[event], listener{id: id, h: h})
	return id
}

// RemoveListener unregisters a handler by ID.
func (l *Listeners) RemoveListener(event string, id ListenerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs := l.byEvent[event]
	for i, s := range subs {
		if s.id == id {
			next := make([]listener, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(l.byEvent, event)
			} else {
				l.byEvent[event] = next
			}
			return true
		}
	}
	return false
}

// Dispatch calls every handler registered for msg.Event and returns how many
// ran.
func (l *Listeners) Dispatch(msg Message) int {
	l.mu.RLock()
	subs := l.byEvent[msg.Event]
	l.mu.RUnlock()

	for _, s := range subs {
		safeCall(s.h, msg)
	}
	return len(subs)
}

// Count returns the number of handlers for event.
func (l *Listeners) Count(event string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byEvent[event])
}

// Clear removes every handler.
func (l *Listeners) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byEvent = make(map[string][]listener)
}

func safeCall(h Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			logx.WithComponent("realtime").WithFields(logx.Fields{
				"event": msg.Event,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("event handler panicked")
		}
	}()
	h(json.RawMessage(msg.Data))
}
