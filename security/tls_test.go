package security

import (
	"crypto/tls"
	"testing"

	"github.com/kbukum/storekit/security/tlstest"
)

func TestTLSConfig_BuildDisabled(t *testing.T) {
	var nilCfg *TLSConfig
	for name, cfg := range map[string]*TLSConfig{"nil": nilCfg, "zero": {}} {
		result, err := cfg.Build()
		if err != nil || result != nil {
			t.Errorf("%s: Build() = %v, %v; want nil, nil", name, result, err)
		}
	}
}

func TestTLSConfig_Build(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	cfg := &TLSConfig{
		CAFile:     certs.CAFile,
		CertFile:   certs.CertFile,
		KeyFile:    certs.KeyFile,
		ServerName: "localhost",
		MinVersion: tls.VersionTLS13,
	}
	result, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RootCAs == nil {
		t.Error("expected RootCAs to be set")
	}
	if len(result.Certificates) != 1 {
		t.Error("expected 1 client certificate")
	}
	if result.ServerName != "localhost" {
		t.Errorf("expected ServerName=localhost, got %s", result.ServerName)
	}
	if result.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion=TLS13, got %d", result.MinVersion)
	}

	skip, err := (&TLSConfig{SkipVerify: true}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !skip.InsecureSkipVerify || skip.MinVersion != tls.VersionTLS12 {
		t.Errorf("unexpected config %+v", skip)
	}
}

func TestTLSConfig_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing CA", TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"invalid CA", TLSConfig{CAFile: tlstest.WriteInvalidPEM(t, "bad-ca.pem")}},
		{"missing cert", TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTLSConfig_Validate(t *testing.T) {
	var nilCfg *TLSConfig
	if err := nilCfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&TLSConfig{CertFile: "cert.pem", KeyFile: "key.pem"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&TLSConfig{CertFile: "cert.pem"}).Validate(); err == nil {
		t.Error("expected error when CertFile set without KeyFile")
	}
	if err := (&TLSConfig{KeyFile: "key.pem"}).Validate(); err == nil {
		t.Error("expected error when KeyFile set without CertFile")
	}
}

func TestTLSConfig_IsEnabled(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		enabled bool
	}{
		{"nil", nil, false},
		{"zero", &TLSConfig{}, false},
		{"skip_verify", &TLSConfig{SkipVerify: true}, true},
		{"ca_file", &TLSConfig{CAFile: "ca.pem"}, true},
		{"cert_file", &TLSConfig{CertFile: "cert.pem"}, true},
		{"server_name", &TLSConfig{ServerName: "example.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.IsEnabled(); got != tt.enabled {
				t.Errorf("IsEnabled() = %v, want %v", got, tt.enabled)
			}
		})
	}
}

func TestServerTLSConfig(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	disabled, err := (&ServerTLSConfig{}).Build()
	if err != nil || disabled != nil {
		t.Fatalf("disabled Build() = %v, %v", disabled, err)
	}

	plain, err := (&ServerTLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plain.Certificates) != 1 || plain.ClientAuth != tls.NoClientCert {
		t.Errorf("unexpected config %+v", plain)
	}

	mutual, err := (&ServerTLSConfig{CertFile: certs.CertFile, KeyFile: certs.KeyFile, ClientCAFile: certs.CAFile}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if mutual.ClientCAs == nil || mutual.ClientAuth != tls.RequireAndVerifyClientCert {
		t.Errorf("expected mutual TLS, got %+v", mutual)
	}

	for name, cfg := range map[string]ServerTLSConfig{
		"key without cert": {KeyFile: certs.KeyFile},
		"ca without cert":  {ClientCAFile: certs.CAFile},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
	if _, err := (&ServerTLSConfig{CertFile: certs.CertFile, KeyFile: "/nonexistent/key.pem"}).Build(); err == nil {
		t.Error("expected error for missing key")
	}
}
