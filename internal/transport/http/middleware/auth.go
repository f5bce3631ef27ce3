package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"socialfeed/internal/auth"
	"socialfeed/internal/httputil"
	"socialfeed/internal/logger"
	"socialfeed/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey contextKey = "principal"
)

// AccessTokenCookie is read when no Authorization header is sent.
const AccessTokenCookie = "access_token"

// PrincipalMiddleware attaches the caller's principal to the request context.
// A request without a token continues anonymously; a request with a bad
// token is rejected.
// Checks Authorization header first, then falls back to cookie (for web)
func PrincipalMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Ctx(r.Context()).Debug().Err(err).Msg("rejected bearer token")
				if errors.Is(err, auth.ErrTokenExpired) {
					httputil.WriteUnauthorizedWithCode(w, auth.CodeTokenExpired, "Access token has expired")
					return
				}
				httputil.WriteUnauthorizedWithCode(w, auth.CodeTokenInvalid, "Invalid authentication token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	// Expected format: "Bearer <token>"
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// PrincipalFromContext returns the caller's principal, or nil when anonymous.
func PrincipalFromContext(ctx context.Context) *model.Principal {
	p, _ := ctx.Value(PrincipalKey).(*model.Principal)
	return p
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
