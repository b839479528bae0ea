package middleware

import (
	"net/http"
	"strings"

	"github.com/kbukum/storekit/auth"
	"github.com/kbukum/storekit/errors"
)

// TokenVerifier checks a bearer token. *auth.Verifier satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid "Authorization: Bearer" token with
// 401. Verified claims are available through auth.ClaimsFrom.
func Auth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, errors.Unauthorized("Authorization header required."))
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeError(w, errors.Unauthorized("Invalid authorization header format."))
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				appErr, isApp := errors.AsAppError(err)
				if !isApp {
					appErr = errors.Unauthorized("Invalid token.")
				}
				writeError(w, appErr)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
