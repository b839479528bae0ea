package fetch

import (
	"time"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/resilience"
	"github.com/kbukum/storekit/security"
	"github.com/kbukum/storekit/validation"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP fetch client.
type Config struct {
	// BaseURL is prepended to request URLs that are not absolute.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" json:"base_url" validate:"omitempty,url"`

	// Timeout bounds a single request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers" json:"headers"`

	// Retry configures the retry middleware. MaxAttempts <= 1 disables it.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry" json:"retry"`

	// TLS configures the client side of HTTPS connections: a private CA,
	// a client certificate for mutual TLS, or an SNI override.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls" json:"tls"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.InvalidInput("timeout", "fetch timeout must be positive")
	}
	if err := c.TLS.Validate(); err != nil {
		return errors.InvalidInput("tls", err.Error())
	}
	return validation.Validate(c)
}

// RetryEnabled reports whether failed fetches should be retried.
func (c *Config) RetryEnabled() bool {
	return c.Retry.MaxAttempts > 1
}
