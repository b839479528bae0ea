package server

import (
	"fmt"
	"time"

	"github.com/kbukum/storekit/security"
	"github.com/kbukum/storekit/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds, 0 keeps watch streams open
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"

	CORS middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`

	// TLS serves HTTPS when a certificate is configured.
	TLS security.ServerTLSConfig `yaml:"tls" mapstructure:"tls"`

	// WatchKeepAlive is the comment interval on watch streams.
	WatchKeepAlive time.Duration `yaml:"watch_keep_alive" mapstructure:"watch_keep_alive"`
	// WatchBuffer is the number of change events a slow watcher may lag
	// behind before events are dropped.
	WatchBuffer int `yaml:"watch_buffer" mapstructure:"watch_buffer"`
	// FetchRateLimit caps POST /fetch per client per minute. Zero disables.
	FetchRateLimit int `yaml:"fetch_rate_limit" mapstructure:"fetch_rate_limit"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.WatchKeepAlive == 0 {
		c.WatchKeepAlive = 30 * time.Second
	}
	if c.WatchBuffer == 0 {
		c.WatchBuffer = 16
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must be non-negative")
	}
	if c.WatchKeepAlive < 0 {
		return fmt.Errorf("server.watch_keep_alive must be non-negative (got: %s)", c.WatchKeepAlive)
	}
	if c.WatchBuffer < 0 {
		return fmt.Errorf("server.watch_buffer must be non-negative (got: %d)", c.WatchBuffer)
	}
	if c.FetchRateLimit < 0 {
		return fmt.Errorf("server.fetch_rate_limit must be non-negative (got: %d)", c.FetchRateLimit)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("server.tls: %w", err)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
