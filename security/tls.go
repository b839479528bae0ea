package security

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var errHalfPair = errors.New("security/tls: cert_file and key_file must be set together")

// TLSConfig is how the fetch client dials upstreams. A CertFile/KeyFile
// pair presents a client certificate for mTLS.
type TLSConfig struct {
	// SkipVerify accepts any server certificate. For local testing only.
	SkipVerify bool   `yaml:"skip_verify" mapstructure:"skip_verify"`
	CAFile     string `yaml:"ca_file" mapstructure:"ca_file"`
	CertFile   string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile    string `yaml:"key_file" mapstructure:"key_file"`
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
	// MinVersion is a crypto/tls version constant; zero means TLS 1.2.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`
}

// IsEnabled reports whether any client setting is present.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && (c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != "")
}

func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	return checkPair(c.CertFile, c.KeyFile)
}

// Build returns the client *tls.Config, or nil when nothing is configured.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	out := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in
		ServerName:         c.ServerName,
		MinVersion:         versionOrDefault(c.MinVersion),
	}
	var err error
	if c.CAFile != "" {
		if out.RootCAs, err = readPool(c.CAFile); err != nil {
			return nil, err
		}
	}
	if c.CertFile != "" && c.KeyFile != "" {
		if out.Certificates, err = readPair(c.CertFile, c.KeyFile); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ServerTLSConfig is the HTTP server's certificate. Setting ClientCAFile
// requires clients to present a certificate signed by that CA.
type ServerTLSConfig struct {
	CertFile     string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile      string `yaml:"key_file" mapstructure:"key_file"`
	ClientCAFile string `yaml:"client_ca_file" mapstructure:"client_ca_file"`
	MinVersion   uint16 `yaml:"min_version" mapstructure:"min_version"`
}

func (c *ServerTLSConfig) IsEnabled() bool {
	return c != nil && c.CertFile != ""
}

func (c *ServerTLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if err := checkPair(c.CertFile, c.KeyFile); err != nil {
		return err
	}
	if c.ClientCAFile != "" && c.CertFile == "" {
		return errors.New("security/tls: client_ca_file needs cert_file and key_file")
	}
	return nil
}

// Build returns the server *tls.Config, or nil when no certificate is set.
func (c *ServerTLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	certs, err := readPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, err
	}
	out := &tls.Config{Certificates: certs, MinVersion: versionOrDefault(c.MinVersion)}
	if c.ClientCAFile == "" {
		return out, nil
	}
	if out.ClientCAs, err = readPool(c.ClientCAFile); err != nil {
		return nil, err
	}
	out.ClientAuth = tls.RequireAndVerifyClientCert
	return out, nil
}

func checkPair(cert, key string) error {
	if (cert == "") != (key == "") {
		return errHalfPair
	}
	return nil
}

func versionOrDefault(v uint16) uint16 {
	if v == 0 {
		return tls.VersionTLS12
	}
	return v
}

func readPair(certFile, keyFile string) ([]tls.Certificate, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("security/tls: load key pair %s: %w", certFile, err)
	}
	return []tls.Certificate{cert}, nil
}

func readPool(caFile string) (*x509.CertPool, error) {
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("security/tls: read CA: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("security/tls: no certificates in %s", caFile)
	}
	return pool, nil
}
