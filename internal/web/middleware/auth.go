// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"

	"github.com/digivantrix/campaigns/internal/core"
	"github.com/google/uuid"
)

type contextKey int

const userKey contextKey = iota

// SessionResolver turns a session token into a user.
type SessionResolver interface {
	UserForSession(ctx context.Context, token uuid.UUID) (*core.User, error)
}

// WithUser returns a context carrying the authenticated caller.
func WithUser(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the authenticated caller, or nil.
func UserFrom(ctx context.Context) *core.User {
	u, _ := ctx.Value(userKey).(*core.User)
	return u
}

// SessionAuth resolves the session cookie (or X-Session-Token header) to a
// user and attaches it to the request context. Requests without a valid
// session pass through unauthenticated; the role guards reject them.
func SessionAuth(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if c, err := r.Cookie(cookieName); err == nil {
				raw = c.Value
			}
			if raw == "" {
				raw = r.Header.Get("X-Session-Token")
			}

			if raw != "" {
				if token, err := uuid.Parse(raw); err == nil {
					if u, err := resolver.UserForSession(r.Context(), token); err == nil {
						r = r.WithContext(WithUser(r.Context(), u))
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireManagerOrAdmin rejects callers whose role is outside
// {admin, manager} before any domain logic runs.
func RequireManagerOrAdmin(next http.Handler) http.Handler {
	return requireRole(next, core.RoleAdmin, core.RoleManager)
}

// RequireAdmin rejects all callers except admins.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, core.RoleAdmin)
}

func requireRole(next http.Handler, roles ...core.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFrom(r.Context())
		if u == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}
		if !roleAllowed(u.Role, roles) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			if len(roles) == 1 && roles[0] == core.RoleAdmin {
				w.Write([]byte(`{"error":"Admin access required"}`))
			} else {
				w.Write([]byte(`{"error":"Manager or admin access required"}`))
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func roleAllowed(role core.Role, allowed []core.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
