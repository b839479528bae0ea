// Package security holds TLS settings: TLSConfig for the fetch client's
// upstream connections and ServerTLSConfig for the HTTP server.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/path/to/ca.pem",
//	    CertFile: "/path/to/cert.pem",
//	    KeyFile:  "/path/to/key.pem",
//	}
//
//	tlsConfig, err := cfg.Build()
//
// The tlstest subpackage generates throwaway certificates for tests.
package security
