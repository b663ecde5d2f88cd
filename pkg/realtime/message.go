package realtime

import "encoding/json"

// Message is the wire envelope of every frame.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode builds the frame for event carrying payload. A payload that is
// already json.RawMessage is sent as is.
func Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, ErrRegistry.New(CodeInvalidFrame).WithDetail("reason", "empty event")
	}

	var data json.RawMessage
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		data = p
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, ErrRegistry.NewWithCause(CodeEncode, err).WithDetail("event", event)
		}
		data = b
	}

	frame, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeEncode, err).WithDetail("event", event)
	}
	return frame, nil
}

// Decode parses a frame and rejects frames without an event name.
func Decode(frame []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, ErrRegistry.NewWithCause(CodeInvalidFrame, err)
	}
	if msg.Event == "" {
		return Message{}, ErrRegistry.New(CodeInvalidFrame).WithDetail("reason", "empty event")
	}
	return msg, nil
}
