// Package config loads the taskboard configuration from defaults, an optional
// config file and TASKBOARD_* environment variables.
package config

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// TASKBOARD_SERVER_PORT for server.port.
const EnvPrefix = "TASKBOARD"

var (
	registry = errx.NewRegistry("CONFIG")

	ErrRead    = registry.Register("READ", errx.TypeInternal, http.StatusInternalServerError, "could not read config file")
	ErrDecode  = registry.Register("DECODE", errx.TypeValidation, http.StatusBadRequest, "could not decode config")
	ErrInvalid = registry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "invalid config")
)

// Config represents the complete taskboard configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig controls the HTTP and websocket server
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     string        `mapstructure:"cors_origins"`
	// Seed fills the in-memory store with demo tasks on startup
	Seed bool `mapstructure:"seed"`
}

// Address returns host:port for fiber's Listen
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig configures the optional pub/sub broker shared by hub nodes
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Address returns host:port for the redis client
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RealtimeConfig tunes websocket connections on both ends
type RealtimeConfig struct {
	PingInterval time.Duration `mapstructure:"ping_interval"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	DialAttempts int           `mapstructure:"dial_attempts"`
	DialBackoff  time.Duration `mapstructure:"dial_backoff"`
}

// ClientConfig is used by the board and chat commands
type ClientConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	WSURL          string        `mapstructure:"ws_url"`
	Owner          string        `mapstructure:"owner"`
	Room           string        `mapstructure:"room"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     "*",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Realtime: RealtimeConfig{
			PingInterval: 25 * time.Second,
			WriteTimeout: 10 * time.Second,
			ReadLimit:    1 << 20,
			DialAttempts: 5,
			DialBackoff:  200 * time.Millisecond,
		},
		Client: ClientConfig{
			APIURL:         "http://localhost:8080",
			WSURL:          "ws://localhost:8080/ws",
			Owner:          "demo",
			Room:           "board",
			RequestTimeout: 10 * time.Second,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.seed", d.Server.Seed)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.host", d.Redis.Host)
	v.SetDefault("redis.port", d.Redis.Port)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)

	v.SetDefault("realtime.ping_interval", d.Realtime.PingInterval)
	v.SetDefault("realtime.write_timeout", d.Realtime.WriteTimeout)
	v.SetDefault("realtime.read_limit", d.Realtime.ReadLimit)
	v.SetDefault("realtime.dial_attempts", d.Realtime.DialAttempts)
	v.SetDefault("realtime.dial_backoff", d.Realtime.DialBackoff)

	v.SetDefault("client.api_url", d.Client.APIURL)
	v.SetDefault("client.ws_url", d.Client.WSURL)
	v.SetDefault("client.owner", d.Client.Owner)
	v.SetDefault("client.room", d.Client.Room)
	v.SetDefault("client.request_timeout", d.Client.RequestTimeout)
}

// Load builds a Config from defaults, the file at path (skipped when empty)
// and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, registry.NewWithCause(ErrRead, err).WithDetail("path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, registry.NewWithCause(ErrDecode, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	invalid := func(field string, value any) error {
		return registry.New(ErrInvalid).WithDetail("field", field).WithDetail("value", value)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		return invalid("redis.host", c.Redis.Host)
	}
	if c.Realtime.DialAttempts < 1 {
		return invalid("realtime.dial_attempts", c.Realtime.DialAttempts)
	}
	if c.Realtime.PingInterval <= 0 {
		return invalid("realtime.ping_interval", c.Realtime.PingInterval)
	}
	if c.Client.Owner == "" {
		return invalid("client.owner", c.Client.Owner)
	}
	return nil
}
