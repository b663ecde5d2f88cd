package asyncx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/asyncx"
)

func TestFuture_AwaitCachesResult(t *testing.T) {
	calls := 0
	fut := asyncx.Run(func() (int, error) {
		calls++
		return 42, nil
	})

	for range 3 {
		v, err := fut.Await()
		if err != nil || v != 42 {
			t.Fatalf("Await() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times", calls)
	}
}

func TestFuture_AwaitContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	fut := asyncx.Run(func() (string, error) {
		<-block
		return "late", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := fut.AwaitContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestToFuture_FirstCompletionWins(t *testing.T) {
	fut := asyncx.ToFuture(func(done asyncx.Callback) {
		done(nil, "a", "b")
		done(errors.New("ignored"))
	})

	v, err := fut.Await()
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if pair, ok := v.([]any); !ok || len(pair) != 2 || pair[0] != "a" || pair[1] != "b" {
		t.Fatalf("got %#v", v)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	v, err := asyncx.RetryWithBackoff(context.Background(), 3, time.Millisecond, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("not yet")
		}
		return "ok", nil
	})
	if err != nil || v != "ok" || attempts != 3 {
		t.Fatalf("got %q, %v after %d attempts", v, err, attempts)
	}
}

func TestRetryWithBackoff_ReturnsLastError(t *testing.T) {
	last := errors.New("last")
	attempts := 0
	_, err := asyncx.RetryWithBackoff(context.Background(), 2, time.Millisecond, func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 2 {
			return 0, last
		}
		return 0, errors.New("first")
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error, got %v", err)
	}
}
