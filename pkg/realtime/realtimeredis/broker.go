package realtimeredis

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "taskboard:realtime:"

// Key helpers
func channelName(room string) string { return channelPrefix + room }
func roomOf(channel string) string   { return strings.TrimPrefix(channel, channelPrefix) }

// Broker implements realtime.Broker over redis pub/sub so hub nodes behind a
// load balancer share rooms.
type Broker struct {
	rdb *redis.Client
	log *logx.Entry

	mu     sync.Mutex
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewBroker creates a broker on top of an existing client.
func NewBroker(rdb *redis.Client) *Broker {
	return &Broker{
		rdb: rdb,
		log: logx.WithComponent("realtimeredis"),
	}
}

var _ realtime.Broker = (*Broker)(nil)

// Publish sends f to the room's channel.
func (b *Broker) Publish(ctx context.Context, f realtime.Frame) error {
	data, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, channelName(f.Room), data).Err(); err != nil {
		return redisErrors.NewWithCause(ErrPublish, err).WithDetail("room", f.Room)
	}
	return nil
}

// Subscribe listens on every room channel and hands frames to deliver from a
// single goroutine, preserving per-node publish order.
func (b *Broker) Subscribe(ctx context.Context, deliver func(realtime.Frame)) error {
	ps := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return redisErrors.NewWithCause(ErrSubscribe, err)
	}

	done := make(chan struct{})
	b.mu.Lock()
	b.pubsub = ps
	b.done = done
	b.mu.Unlock()

	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			f, err := DecodeFrame([]byte(msg.Payload))
			if err != nil {
				b.log.WithError(err).WithField("channel", msg.Channel).Warn("dropping frame")
				continue
			}
			if f.Room == "" {
				f.Room = roomOf(msg.Channel)
			}
			deliver(f)
		}
	}()

	b.log.Info("subscribed to realtime channels")
	return nil
}

// Close ends the subscription and waits for the delivery goroutine. The
// redis client itself is owned by the caller.
func (b *Broker) Close() error {
	b.mu.Lock()
	ps, done := b.pubsub, b.done
	b.pubsub, b.done = nil, nil
	b.mu.Unlock()

	if ps == nil {
		return nil
	}
	err := ps.Close()
	<-done
	return err
}

// EncodeFrame serializes a frame for the wire.
func EncodeFrame(f realtime.Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrMarshal, err)
	}
	return data, nil
}

// DecodeFrame parses a frame published by EncodeFrame.
func DecodeFrame(data []byte) (realtime.Frame, error) {
	var f realtime.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return realtime.Frame{}, redisErrors.NewWithCause(ErrUnmarshal, err)
	}
	return f, nil
}
