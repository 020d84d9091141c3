package middleware

import (
	"net/http"
	"strings"

	"github.com/health-optimised/directory-backend/api/responses"
	"github.com/health-optimised/directory-backend/internal/accounts"
	pkgAuth "github.com/health-optimised/directory-backend/pkg/auth"
	"github.com/health-optimised/directory-backend/pkg/config"
	pkgerrors "github.com/health-optimised/directory-backend/pkg/errors"
	"github.com/health-optimised/directory-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// claims. The token is cross-checked against the live session so that a
// logout invalidates outstanding tokens; a credential rotation keeps the
// session alive because the role is what is matched, not the username.
func Auth(cfg config.JWTConfig, dir *accounts.Directory, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if dir != nil {
				session, ok := dir.CurrentSession()
				if !ok || session.Role != claims.Role {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUsername(r.Context(), claims.Username)
			ctx = WithRole(ctx, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"username":   claims.Username,
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
