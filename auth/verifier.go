package auth

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/storekit/errors"
)

// Claims are the token claims storekit understands.
type Claims struct {
	gojwt.RegisteredClaims
}

// Verifier checks and mints HMAC-signed tokens.
type Verifier struct {
	cfg    Config
	method gojwt.SigningMethod
	key    []byte
}

// NewVerifier builds a verifier from cfg. cfg.Enabled is not consulted.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	if cfg.Secret == "" {
		return nil, errors.Misconfigured("auth.secret", "secret is required")
	}
	method := gojwt.GetSigningMethod(cfg.Method)
	if _, ok := method.(*gojwt.SigningMethodHMAC); !ok {
		return nil, errors.Misconfigured("auth.method", fmt.Sprintf("unsupported method %q", cfg.Method))
	}
	return &Verifier{cfg: cfg, method: method, key: []byte(cfg.Secret)}, nil
}

// Verify parses token and checks its signature, expiry, issuer and
// audience. Failures are UNAUTHORIZED AppErrors.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, v.keyFunc, v.parserOptions()...)
	if err != nil {
		return nil, errors.Unauthorized("Invalid token.").WithCause(err)
	}
	if !parsed.Valid {
		return nil, errors.Unauthorized("Invalid token.")
	}
	return claims, nil
}

// Issue mints a token for subject with the configured TTL.
func (v *Verifier) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(v.cfg.TokenTTL)),
		},
	}
	if v.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{v.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(v.method, claims).SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

func (v *Verifier) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != v.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return v.key, nil
}

func (v *Verifier) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{v.method.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(v.cfg.Audience))
	}
	if v.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(v.cfg.Leeway))
	}
	return opts
}
