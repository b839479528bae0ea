package config

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kbukum/storekit/logger"
)

// ServiceConfig contains the fields every storekit process needs.
// Larger configs embed it:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Fetch fetch.Config `yaml:"fetch" mapstructure:"fetch"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig is promoted through embedding, which makes any config
// that embeds ServiceConfig a bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults names the service storekit and runs it in development,
// where Debug is forced on and an info log level is lowered to debug.
func (c *ServiceConfig) ApplyDefaults() {
	c.Name = cmp.Or(c.Name, "storekit")
	c.Environment = cmp.Or(c.Environment, "development")
	c.Debug = c.Debug || c.Environment == "development"

	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

var environments = []string{"development", "staging", "production"}

// Validate checks the name, the environment and the logging section.
func (c *ServiceConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("config.name is required")
	case !slices.Contains(environments, c.Environment):
		return fmt.Errorf("config.environment must be one of %v (got: %q)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
