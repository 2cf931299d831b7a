package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newLimiter(t *testing.T, max int64) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRateLimiter(client, zap.NewNop())
	l.maxRequests = max
	return l, mr
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	l, mr := newLimiter(t, 3)
	h := l.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		rec := serve(h, "203.0.113.7:5000")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, RateLimitWindow, mr.TTL(RateLimitKeyPrefix+"203.0.113.7"))

	rec := serve(h, "203.0.113.7:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retry_after":120`)
	assert.True(t, mr.Exists(BlockedIPKeyPrefix+"203.0.113.7"))

	rec = serve(h, "203.0.113.7:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily blocked")

	assert.Equal(t, http.StatusOK, serve(h, "198.51.100.1:80").Code)

	require.NoError(t, l.Unblock(context.Background(), "203.0.113.7"))
	assert.Equal(t, http.StatusOK, serve(h, "203.0.113.7:5000").Code)
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	l, mr := newLimiter(t, 1)
	h := l.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "").Code)
	mr.FastForward(RateLimitWindow + time.Second)
	assert.Equal(t, http.StatusOK, serve(h, "").Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	l, mr := newLimiter(t, 1)
	h := l.Middleware(okHandler)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(h, "").Code)
	}
}

func TestRateLimiter_NilClientPassesThrough(t *testing.T) {
	h := NewRateLimiter(nil, nil).Middleware(okHandler)
	assert.Equal(t, http.StatusOK, serve(h, "").Code)
}

func TestIPLimiter(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 2, "Too many login attempts. Please try again later.")
	h := l.Middleware(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:2").Code)
	rec := serve(h, "10.0.0.1:3")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many login attempts. Please try again later."}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.2:1").Code)
}

func TestIPLimiter_PrunesIdleEntries(t *testing.T) {
	l := NewIPLimiter(rate.Every(time.Hour), 1, "slow down")
	clock := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	l.get("10.0.0.1")
	clock = clock.Add(limiterTTL + limiterPruneInterval + time.Second)
	l.get("10.0.0.2")

	assert.NotContains(t, l.entries, "10.0.0.1")
	assert.Contains(t, l.entries, "10.0.0.2")
}

func TestSecurityHeaders(t *testing.T) {
	rec := serve(SecurityHeaders(okHandler), "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:5173"})(okHandler)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/journals", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight("https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequireSession(t *testing.T) {
	sessions := services.NewSessionManager(services.NewAccountBackend(nil, nil), nil)
	var seen string
	h := RequireSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, found := SessionFromContext(r.Context())
		require.True(t, found)
		seen = s.User.Email
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Authentication required"}`, rec.Body.String())

	session, err := sessions.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	rec = serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "signed in, but no token presented")

	withAuth := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/journals", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	assert.Equal(t, http.StatusUnauthorized, withAuth("Bearer not-the-token").Code)
	assert.Equal(t, http.StatusUnauthorized, withAuth(session.Token).Code)

	rec = withAuth("Bearer " + session.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ana@example.com", seen)
}

func TestBearerToken(t *testing.T) {
	for header, want := range map[string]string{
		"":             "",
		"Bearer":       "",
		"Basic abc":    "",
		"Bearer abc":   "abc",
		"bearer abc ":  "abc",
		"BEARER  abc=": "abc=",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(req), header)
	}
}
