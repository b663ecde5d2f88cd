package realtime

import "encoding/json"

// Event names exchanged by the board and chat.
const (
	EventChat     = "chat"
	EventSyncTask = "syncTask"
)

// Handler receives the raw data of an inbound event.
type Handler func(data json.RawMessage)

// ListenerID identifies a registered handler so it can be removed later.
type ListenerID uint64

// Channel is a bidirectional named-event channel.
type Channel interface {
	// Emit sends payload under event to the other side.
	Emit(event string, payload any) error
	// On registers h for event and returns its ID.
	On(event string, h Handler) ListenerID
	// RemoveListener unregisters the handler and reports whether it existed.
	RemoveListener(event string, id ListenerID) bool
}
