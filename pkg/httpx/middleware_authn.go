package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/Dorian9120/eventyfast/pkg/jwtx"
	"github.com/Dorian9120/eventyfast/pkg/slogx"
)

// AuthnMiddleware authenticates requests via the session cookie. An expired
// token yields a distinct "session expired" message so clients know to
// prompt for re-login rather than treating it as a hard failure.
func AuthnMiddleware(verifier *jwtx.HS256) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, http.StatusForbidden, "Access denied. Please provide a token.")
				return
			}

			claims, err := verifier.Verify(cookie.Value)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					WriteError(w, http.StatusUnauthorized, "Session expired, please log in again.")
					return
				}
				log.Warn("session token verify failed", "err", err)
				WriteError(w, http.StatusBadRequest, "Invalid or expired token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, claims)))
		})
	}
}

// RequireAdmin rejects callers whose session role is not admin. Must be
// applied after AuthnMiddleware.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != "admin" {
				WriteError(w, http.StatusForbidden, "Admin access only.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	return context.WithValue(ctx, CtxKeyClaims, c)
}

// AccountIDFromContext returns the authenticated account id, or "" when the
// request is anonymous.
func AccountIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return id
	}
	return ""
}

// RoleFromContext returns the authenticated role, or "" when anonymous.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(CtxKeyRole).(string); ok {
		return role
	}
	return ""
}
