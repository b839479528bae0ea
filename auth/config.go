package auth

import (
	"fmt"
	"time"
)

// Config enables bearer-token checks on the store routes.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Secret is the HMAC key. Required when enabled.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is HS256, HS384 or HS512.
	Method   string `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512"`
	Issuer   string `yaml:"issuer" mapstructure:"issuer"`
	Audience string `yaml:"audience" mapstructure:"audience"`
	// TokenTTL is the lifetime of tokens minted by Issue.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = time.Hour
	}
}

// Validate checks the settings that matter when auth is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required when auth is enabled")
	}
	switch c.Method {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("auth.method %q is not supported", c.Method)
	}
	if c.Leeway < 0 {
		return fmt.Errorf("auth.leeway must not be negative")
	}
	return nil
}
