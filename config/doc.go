// Package config loads storekit configuration from a YAML file, an optional
// .env file and environment variables, in increasing precedence.
//
// Without explicit paths, Load looks for ./cmd/<service>/config.yml,
// ./config/<service>.yml, ./config/config.yml and ./config.yml. Every field
// can be overridden from the environment by its upper-cased path:
// FETCH_BASE_URL, SERVER_TLS_CERT_FILE, or with the service prefix,
// STOREKIT_SERVER_PORT.
//
//	var cfg config.Config
//	if err := config.Load("storekit", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
