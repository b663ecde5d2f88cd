package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// Frame is a client frame travelling between hub nodes.
type Frame struct {
	Room string `json:"room"`
	// Node is the hub node the frame entered on.
	Node string `json:"node"`
	// Origin is the connection that sent the frame; it never receives it back.
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Broker fans frames out to every hub node subscribed to it.
type Broker interface {
	Publish(ctx context.Context, f Frame) error
	// Subscribe starts delivering published frames to deliver. It returns
	// once the subscription is live.
	Subscribe(ctx context.Context, deliver func(Frame)) error
	Close() error
}

// LocalBroker delivers frames synchronously inside one process.
type LocalBroker struct {
	mu   sync.RWMutex
	subs []func(Frame)
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{}
}

var _ Broker = (*LocalBroker)(nil)

func (b *LocalBroker) Publish(ctx context.Context, f Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, deliver := range subs {
		deliver(f)
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, deliver func(Frame)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, deliver)
	return nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
	return nil
}
