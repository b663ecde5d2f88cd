package realtime

import "sync/atomic"

// LocalChannel is an in-process Channel. Frames emitted on one end of a
// Pipe are dispatched synchronously to the listeners of the other end, with
// the same encoding a websocket Client uses.
type LocalChannel struct {
	listeners *Listeners
	peer      *LocalChannel
	closed    atomic.Bool
}

// Pipe returns two connected channels.
func Pipe() (*LocalChannel, *LocalChannel) {
	a := &LocalChannel{listeners: NewListeners()}
	b := &LocalChannel{listeners: NewListeners()}
	a.peer, b.peer = b, a
	return a, b
}

var _ Channel = (*LocalChannel)(nil)

// Emit delivers payload to the peer's listeners.
func (c *LocalChannel) Emit(event string, payload any) error {
	if c.closed.Load() {
		return ErrClosed()
	}
	frame, err := Encode(event, payload)
	if err != nil {
		return err
	}
	msg, err := Decode(frame)
	if err != nil {
		return err
	}
	if !c.peer.closed.Load() {
		c.peer.listeners.Dispatch(msg)
	}
	return nil
}

func (c *LocalChannel) On(event string, h Handler) ListenerID {
	return c.listeners.On(event, h)
}

func (c *LocalChannel) RemoveListener(event string, id ListenerID) bool {
	return c.listeners.RemoveListener(event, id)
}

// Close stops both sending and receiving on this end.
func (c *LocalChannel) Close() error {
	c.closed.Store(true)
	c.listeners.Clear()
	return nil
}

// ListenerCount returns how many handlers this end has for event.
func (c *LocalChannel) ListenerCount(event string) int {
	return c.listeners.Count(event)
}
