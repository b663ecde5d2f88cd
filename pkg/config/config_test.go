package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/config"
	"github.com/Abraxas-365/taskboard/pkg/errx"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	if cfg.Server.Port != want.Server.Port {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, want.Server.Port)
	}
	if cfg.Realtime.PingInterval != want.Realtime.PingInterval {
		t.Errorf("realtime.ping_interval = %v, want %v", cfg.Realtime.PingInterval, want.Realtime.PingInterval)
	}
	if cfg.Client.Room != "board" {
		t.Errorf("client.room = %q", cfg.Client.Room)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TASKBOARD_SERVER_PORT", "9090")
	t.Setenv("TASKBOARD_REDIS_ENABLED", "true")
	t.Setenv("TASKBOARD_CLIENT_REQUEST_TIMEOUT", "3s")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis.enabled not overridden")
	}
	if cfg.Client.RequestTimeout != 3*time.Second {
		t.Errorf("client.request_timeout = %v", cfg.Client.RequestTimeout)
	}
	if got := cfg.Server.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %q", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	data := []byte("server:\n  port: 7070\nclient:\n  owner: alice\n  room: team\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Client.Owner != "alice" || cfg.Client.Room != "team" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Redis.Port != 6379 {
		t.Errorf("redis.port = %d", cfg.Redis.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errx.HasCode(err, config.ErrRead) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("TASKBOARD_SERVER_PORT", "70000")

	_, err := config.Load("")
	if !errx.HasCode(err, config.ErrInvalid) {
		t.Fatalf("expected invalid error, got %v", err)
	}
}
