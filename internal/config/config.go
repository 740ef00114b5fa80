// Package config holds the settings shared by the server and terminal binaries.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr                string
	AllowedOrigins      []string
	LogLevel            string
	LogPretty           bool
	MatchmakingInterval time.Duration
	ReadBufferSize      int
	WriteBufferSize     int
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      []string{"http://localhost:5173"},
		LogLevel:            "info",
		LogPretty:           false,
		MatchmakingInterval: time.Second,
		ReadBufferSize:      1024,
		WriteBufferSize:     1024,
	}
}

// FromEnv overlays CHESS_* variables read through getenv onto c. Unset
// variables leave the field alone.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("CHESS_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: CHESS_LOG_PRETTY=%q", ErrInvalidConfig, v)
		}
		c.LogPretty = b
	}
	if v := getenv("CHESS_MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%w: CHESS_MATCHMAKING_INTERVAL=%q", ErrInvalidConfig, v)
		}
		c.MatchmakingInterval = d
	}
	return c, nil
}

// BindFlags registers command-line flags that write into c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.Func("origins", "comma-separated allowed origins", func(v string) error {
		c.AllowedOrigins = splitList(v)
		return nil
	})
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "trace, debug, info, warn or error")
	fs.BoolVar(&c.LogPretty, "log-pretty", c.LogPretty, "human readable console logs")
	fs.DurationVar(&c.MatchmakingInterval, "matchmaking-interval", c.MatchmakingInterval, "how often queued players are paired")
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is empty", ErrInvalidConfig)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("%w: allowed origins is empty", ErrInvalidConfig)
	}
	// cors refuses a wildcard origin together with credentials
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return fmt.Errorf("%w: allowed origins may not contain *", ErrInvalidConfig)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("%w: matchmaking interval %s", ErrInvalidConfig, c.MatchmakingInterval)
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return fmt.Errorf("%w: websocket buffer sizes must be positive", ErrInvalidConfig)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
