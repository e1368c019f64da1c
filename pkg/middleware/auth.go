package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalogapi/pkg/auth"
	"github.com/shashiranjanraj/catalogapi/pkg/logger"
	"github.com/shashiranjanraj/catalogapi/pkg/response"
)

type claimsKey struct{}

// TokenParser is satisfied by *auth.Issuer.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate rejects requests without a valid bearer token with 401. On
// success the token claims are stored in the request context and the
// request logger is tagged with the username.
func Authenticate(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			claims, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user", claims.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromCtx returns the claims stored by Authenticate.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// WithClaims stores claims in ctx. Used by tests and internal callers.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}
