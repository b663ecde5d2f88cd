package realtimeredis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
	"github.com/redis/go-redis/v9"
)

func TestChannelNames(t *testing.T) {
	if got := channelName("board"); got != "taskboard:realtime:board" {
		t.Fatalf("channelName = %q", got)
	}
	if got := roomOf("taskboard:realtime:team:a"); got != "team:a" {
		t.Fatalf("roomOf = %q", got)
	}
}

func TestFrameCodec(t *testing.T) {
	in := realtime.Frame{Room: "r", Node: "n1", Origin: "c1", Payload: json.RawMessage(`{"event":"chat","data":"x"}`)}
	data, err := EncodeFrame(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Room != in.Room || out.Origin != in.Origin || string(out.Payload) != string(in.Payload) {
		t.Fatalf("out = %+v", out)
	}

	if _, err := DecodeFrame([]byte("nope")); !errx.HasCode(err, ErrUnmarshal) {
		t.Fatalf("err = %v", err)
	}
}

// Runs against a live server when TASKBOARD_TEST_REDIS_ADDR is set.
func TestBroker_PublishSubscribe(t *testing.T) {
	addr := os.Getenv("TASKBOARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TASKBOARD_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := NewBroker(rdb)
	got := make(chan realtime.Frame, 1)
	if err := b.Subscribe(ctx, func(f realtime.Frame) { got <- f }); err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	want := realtime.Frame{Room: "it", Node: "n", Origin: "c", Payload: json.RawMessage(`{"event":"chat"}`)}
	if err := b.Publish(ctx, want); err != nil {
		t.Fatal(err)
	}

	select {
	case f := <-got:
		if f.Room != "it" || f.Origin != "c" {
			t.Fatalf("frame = %+v", f)
		}
	case <-ctx.Done():
		t.Fatal("no frame received")
	}
}
