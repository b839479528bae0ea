package config

import (
	"cmp"
	"fmt"

	"github.com/kbukum/storekit/auth"
	"github.com/kbukum/storekit/equality"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/server"
	"github.com/kbukum/storekit/validation"
)

// Config is the full configuration of a storekit process.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Fetch     fetch.Config                  `yaml:"fetch" mapstructure:"fetch"`
	Server    server.Config                 `yaml:"server" mapstructure:"server"`
	Telemetry observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
	Auth      auth.Config                   `yaml:"auth" mapstructure:"auth"`
	Store     StoreConfig                   `yaml:"store" mapstructure:"store"`
}

// StoreConfig configures the shared store.
type StoreConfig struct {
	// Equality picks the selector equality checker: identity, deep,
	// expr:<source> or cel:<source>.
	Equality string `yaml:"equality" mapstructure:"equality"`
}

// ApplyDefaults fills every section with its defaults.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Fetch.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Telemetry.ApplyDefaults(c.Name)
	c.Auth.ApplyDefaults()
	c.Store.Equality = cmp.Or(c.Store.Equality, equality.ModeIdentity)
}

// Validate checks struct tags first, then each section's own rules.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return fmt.Errorf("config.fetch: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config.auth: %w", err)
	}
	if _, err := equality.Parse(c.Store.Equality); err != nil {
		return fmt.Errorf("config.store: %w", err)
	}
	return nil
}
