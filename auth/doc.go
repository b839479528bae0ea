// Package auth verifies the HMAC-signed JWT bearer tokens that guard the
// store routes, and mints them for operators.
//
//	v, err := auth.NewVerifier(cfg.Auth)
//	token, err := v.Issue("ops")
//	claims, err := v.Verify(token)
package auth
