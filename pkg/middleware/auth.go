package middleware

import (
	"net/http"
	"strings"

	"github.com/opskit/stockroom/pkg/auth"
	"github.com/opskit/stockroom/pkg/contextkeys"
	"github.com/opskit/stockroom/pkg/httputil"
	"github.com/opskit/stockroom/pkg/observability"
)

// AuthMiddleware authenticates requests from a Bearer token. Verification is
// a pure signature and expiry check; the credential store is never consulted
// per request.
type AuthMiddleware struct {
	tokens *auth.TokenService
	logger *observability.Logger
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(tokens *auth.TokenService, logger *observability.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

// Handler wraps an HTTP handler with authentication. On success the verified
// identity is attached to the request context; the handler never runs on a
// failed check.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Format: "Authorization: Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteUnauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		identity, err := m.tokens.Verify(parts[1])
		if err != nil {
			// expired vs malformed stays internal; clients get one message
			m.logger.WithError(err).WithField("path", r.URL.Path).Debug("token rejected")
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithIdentity(r.Context(), &identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authenticated identity from the request, or nil
// when the request did not pass the auth middleware.
func GetIdentity(r *http.Request) *auth.Identity {
	val := r.Context().Value(contextkeys.IdentityKey)
	if val == nil {
		return nil
	}
	identity, ok := val.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}

// RequireRole creates middleware that requires a specific role. It composes
// after AuthMiddleware; authorization is opt-in per route.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r)
			if identity == nil {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}

			if identity.Role != role {
				httputil.WriteForbidden(w, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
