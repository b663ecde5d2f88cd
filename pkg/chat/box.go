// Package chat keeps the message log of the board's chat box and relays it
// over the realtime chat event.
package chat

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
)

const (
	FromMe   = "me"
	FromPeer = "peer"
)

// Message is one line of the chat log.
type Message struct {
	From string    `json:"from"`
	Text string    `json:"msg"`
	At   time.Time `json:"at"`
}

// Mine reports whether the message was sent from this box.
func (m Message) Mine() bool { return m.From == FromMe }

// Box is a chat log bound to a realtime channel.
type Box struct {
	channel   realtime.Channel
	now       func() time.Time
	onMessage func(Message)
	log       *logx.Entry

	mu       sync.RWMutex
	messages []Message
	listener realtime.ListenerID
}

// NewBox creates a detached box. onMessage, if set, is called for every
// message appended to the log.
func NewBox(ch realtime.Channel, onMessage func(Message)) *Box {
	return &Box{
		channel:   ch,
		now:       time.Now,
		onMessage: onMessage,
		log:       logx.WithComponent("chat"),
	}
}

// Attach starts receiving peer messages. Calling it twice is a no-op.
func (b *Box) Attach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener != 0 {
		return
	}
	b.listener = b.channel.On(realtime.EventChat, b.receive)
}

// Detach stops receiving peer messages.
func (b *Box) Detach() {
	b.mu.Lock()
	id := b.listener
	b.listener = 0
	b.mu.Unlock()

	if id != 0 {
		b.channel.RemoveListener(realtime.EventChat, id)
	}
}

// Send appends text to the log and emits it. Blank text is ignored.
func (b *Box) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	b.append(Message{From: FromMe, Text: text, At: b.now()})
	return b.channel.Emit(realtime.EventChat, text)
}

// Messages returns a copy of the log.
func (b *Box) Messages() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Message(nil), b.messages...)
}

func (b *Box) receive(data json.RawMessage) {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		b.log.WithError(err).Warn("ignoring non-text chat payload")
		return
	}
	b.append(Message{From: FromPeer, Text: text, At: b.now()})
}

func (b *Box) append(m Message) {
	b.mu.Lock()
	b.messages = append(b.messages, m)
	b.mu.Unlock()

	if b.onMessage != nil {
		b.onMessage(m)
	}
}
