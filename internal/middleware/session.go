package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

type sessionKey struct{}

// RequireSession rejects requests with 401 unless they carry the current
// session's token as "Authorization: Bearer <token>". Remote tokens are
// re-checked against the identity backend on every call.
func RequireSession(sessions *services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := sessions.Authenticate(r.Context(), BearerToken(r))
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

// SessionFromContext returns the session RequireSession attached.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// BearerToken returns the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("Bearer ") || !strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[len("Bearer "):])
}
