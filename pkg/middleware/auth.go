package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prjrating/sellerrating/pkg/httputil"
	"github.com/prjrating/sellerrating/pkg/logger"
)

type contextKeyType string

const (
	userIDKey contextKeyType = "user_id"
	emailKey  contextKeyType = "email"
	roleKey   contextKeyType = "role"
)

// RoleAdmin is the role allowed past RequireSelfOrRole for any resource.
const RoleAdmin = "admin"

// Claims represents the JWT claims extracted by the auth middleware.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator func(token string) (*Claims, error)

// Auth middleware validates JWT tokens and injects user claims into context.
// The request-scoped logger is re-tagged with the user id.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, r, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeAuthError(w, r, "invalid authorization header format")
				return
			}

			claims, err := validate(parts[1])
			if err != nil {
				writeAuthError(w, r, "invalid or expired token")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UserID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClaims stores the claims in ctx the way Auth does.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, userIDKey, c.UserID)
	ctx = context.WithValue(ctx, emailKey, c.Email)
	return context.WithValue(ctx, roleKey, c.Role)
}

// RequireRole middleware checks that the authenticated user has one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[strings.ToLower(r)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := roleSet[strings.ToLower(RoleFromContext(r.Context()))]; !ok {
				writeForbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrRole lets a request through when the URL parameter param is
// the caller's own user id, or when the caller has one of roles.
func RequireSelfOrRole(param string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if id := chi.URLParam(r, param); id != "" && id == UserIDFromContext(ctx) {
				next.ServeHTTP(w, r)
				return
			}
			role := strings.ToLower(RoleFromContext(ctx))
			for _, allowed := range roles {
				if role == strings.ToLower(allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeForbidden(w, r)
		})
	}
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// EmailFromContext extracts the user email from the request context.
func EmailFromContext(ctx context.Context) string {
	if email, ok := ctx.Value(emailKey).(string); ok {
		return email
	}
	return ""
}

// RoleFromContext extracts the user role from the request context.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleKey).(string); ok {
		return role
	}
	return ""
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(ctx context.Context) bool {
	return strings.EqualFold(RoleFromContext(ctx), RoleAdmin)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	httputil.WriteErrorCode(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func writeForbidden(w http.ResponseWriter, r *http.Request) {
	httputil.WriteErrorCode(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
}
