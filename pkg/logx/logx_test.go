package logx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Abraxas-365/taskboard/pkg/logx"
)

func newBufferLogger(format logx.Format) (*logx.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := logx.DefaultConfig()
	cfg.Format = format
	cfg.EnableColors = false
	cfg.EnableTimestamp = false
	cfg.Output = &buf
	return logx.NewLogger(cfg), &buf
}

func TestJSONFormatter_Fields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON)

	logger.WithComponent("board").
		WithField("task_index", 2).
		WithError(errors.New("sync failed")).
		Warn("checklist sync failed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if line["level"] != "WARN" || line["message"] != "checklist sync failed" {
		t.Fatalf("unexpected line %v", line)
	}
	if line["component"] != "board" || line["task_index"] != float64(2) || line["error"] != "sync failed" {
		t.Fatalf("missing fields in %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole)
	logger.SetLevel(logx.LevelWarn)

	logger.WithField("k", "v").Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}

	logger.WithField("k", "v").Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("error line missing: %q", buf.String())
	}
}

func TestConsoleFormatter_SortedFields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole)

	logger.WithFields(logx.Fields{"zeta": 1, "alpha": 2, "mid": 3}).Info("msg")

	got := strings.TrimSpace(buf.String())
	want := "[INFO ] msg alpha=2 mid=3 zeta=1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEntry_CopyOnWrite(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON)

	base := logger.WithComponent("chat")
	base.WithField("room", "a").Info("one")
	buf.Reset()

	base.Info("two")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatal(err)
	}
	if _, leaked := line["room"]; leaked {
		t.Fatalf("field leaked into base entry: %v", line)
	}
}

func TestEntry_ConcurrentUse(t *testing.T) {
	logger, _ := newBufferLogger(logx.FormatJSON)
	base := logger.WithComponent("hub")

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base.WithField("i", i).Debug("tick")
			base.WithField("i", i).Info("tick")
		}()
	}
	wg.Wait()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]logx.Level{
		"debug":   logx.LevelDebug,
		"WARNING": logx.LevelWarn,
		"off":     logx.LevelOff,
		" trace ": logx.LevelTrace,
		"bogus":   logx.LevelInfo,
	}
	for in, want := range cases {
		if got := logx.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
