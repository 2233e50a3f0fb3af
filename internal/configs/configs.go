/*
Package configs is responsible for loading and parsing the client's configuration settings.

Settings come from operating system environment variables, parsed with caarlos0/env,
and may be overridden on the command line. They cover the running environment, the chat
server endpoint, the local username, connection tuning and the optional state inspector.
*/
package configs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// AppConfig contains all configuration parameters required for the client to run.
type AppConfig struct {
	// General Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogFile     string `env:"LOG_FILE"`
	Headless    bool   `env:"HEADLESS" envDefault:"false"`

	// Session Settings
	ServerURL string `env:"CHAT_SERVER_URL" envDefault:"ws://127.0.0.1:8080/chat"`
	Username  string `env:"CHAT_USERNAME"`

	// Connection Settings
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	PongWait         time.Duration `env:"PONG_WAIT" envDefault:"60s"`
	SendQueueSize    int           `env:"SEND_QUEUE_SIZE" envDefault:"256"`
	MaxFrameBytes    int64         `env:"MAX_FRAME_BYTES" envDefault:"65536"`

	// Inspector Settings
	InspectAddr    string   `env:"INSPECT_ADDR"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	PostRate       float64  `env:"POST_RATE" envDefault:"5"`
	PostBurst      int      `env:"POST_BURST" envDefault:"10"`
}

// IsDevelopment reports whether the client runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads the configuration from environment variables, applies command-line
// overrides from args and validates the result.
func LoadConfig(args []string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.applyFlags(args); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags overrides environment values with any flags present in args.
func (c *AppConfig) applyFlags(args []string) error {
	flagSet := pflag.NewFlagSet("chatsync", pflag.ContinueOnError)
	flagSet.StringVarP(&c.ServerURL, "url", "u", c.ServerURL, "chat server websocket URL (CHAT_SERVER_URL)")
	flagSet.StringVarP(&c.Username, "username", "n", c.Username, "username to register with (CHAT_USERNAME)")
	flagSet.StringVar(&c.InspectAddr, "inspect-addr", c.InspectAddr, "listen address of the state inspector, empty to disable (INSPECT_ADDR)")
	flagSet.BoolVar(&c.Headless, "headless", c.Headless, "run without the terminal UI (HEADLESS)")
	flagSet.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file (LOG_FILE)")
	flagSet.StringVar(&c.Environment, "env", c.Environment, "running environment: development or production (ENVIRONMENT)")

	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return nil
}

func (c *AppConfig) normalize() {
	c.Username = strings.TrimSpace(c.Username)
	c.ServerURL = strings.TrimSpace(c.ServerURL)

	origins := c.AllowedOrigins[:0]
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
}

// Validate checks the values that cannot be fixed with a default.
func (c *AppConfig) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Environment)
	}

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid CHAT_SERVER_URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("CHAT_SERVER_URL must use ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("CHAT_SERVER_URL has no host")
	}

	if c.SendQueueSize <= 0 {
		return fmt.Errorf("SEND_QUEUE_SIZE must be positive, got %d", c.SendQueueSize)
	}
	if c.MaxFrameBytes <= 0 {
		return fmt.Errorf("MAX_FRAME_BYTES must be positive, got %d", c.MaxFrameBytes)
	}
	if c.HandshakeTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("HANDSHAKE_TIMEOUT and WRITE_TIMEOUT must be positive")
	}
	if c.PongWait < 0 {
		return fmt.Errorf("PONG_WAIT must not be negative, got %s", c.PongWait)
	}

	if c.InspectAddr != "" && (c.PostRate <= 0 || c.PostBurst <= 0) {
		return fmt.Errorf("POST_RATE and POST_BURST must be positive when the inspector is enabled")
	}

	return nil
}
