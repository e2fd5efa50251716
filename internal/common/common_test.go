package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", NotFound("message %s not found", "abc"), http.StatusNotFound, "message abc not found"},
		{"forbidden", Forbidden("only the sender can edit"), http.StatusForbidden, "only the sender can edit"},
		{"validation", Invalid("bad"), http.StatusBadRequest, "bad"},
		{"unauthenticated", Unauthenticated("nope"), http.StatusUnauthorized, "nope"},
		{"wrapped kind survives", fmt.Errorf("ctx: %w", NotFound("gone")), http.StatusNotFound, "gone"},
		{"unknown error is hidden", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := HTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(42, "alice")
	require.NoError(t, err)

	claims, err := tm.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Handle)

	_, err = NewTokenManager("other", time.Hour).ValidToken(token)
	assert.Error(t, err, "wrong secret")

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(42, "alice")
	require.NoError(t, err)
	_, err = tm.ValidToken(old)
	assert.Error(t, err, "expired")
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("GoodPassword1")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword("GoodPassword1", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}

func TestValidation(t *testing.T) {
	assert.NoError(t, ValidateHandle("alice_01"))
	assert.Error(t, ValidateHandle("al"))
	assert.Error(t, ValidateHandle("alice!"))
	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("bademail"))

	blank, hi := "  ", "hi"
	assert.False(t, HasText(nil))
	assert.False(t, HasText(&blank))
	assert.True(t, HasText(&hi))
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.GenerateToken(7, "bob")
	require.NoError(t, err)

	var seen uint64
	h := AuthMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		path   string
		header string
		status int
		userID uint64
	}{
		{name: "bearer header", path: "/api/v1/friends", header: "Bearer " + token, status: http.StatusNoContent, userID: 7},
		{name: "query token", path: "/api/v1/ws?token=" + token, status: http.StatusNoContent, userID: 7},
		{name: "missing", path: "/api/v1/friends", status: http.StatusUnauthorized},
		{name: "malformed header", path: "/api/v1/friends", header: token, status: http.StatusUnauthorized},
		{name: "garbage token", path: "/api/v1/friends", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "public login", path: "/api/v1/auth/login", status: http.StatusNoContent},
		{name: "public media", path: "/media/65f0", status: http.StatusNoContent},
		{name: "public health", path: "/api/v1/health", status: http.StatusNoContent},
		{name: "health suffix is not public", path: "/api/v1/messages/health", status: http.StatusUnauthorized},
		{name: "login suffix is not public", path: "/api/v1/friends/auth/login", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.userID, seen)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(userID uint64) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/send/2", nil)
		req = req.WithContext(WithIdentity(context.Background(), userID, "u"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, send(1))
	assert.Equal(t, http.StatusCreated, send(1))
	assert.Equal(t, http.StatusTooManyRequests, send(1))
	// buckets are per user
	assert.Equal(t, http.StatusCreated, send(2))
}

func TestRateLimiter_CleanupEvictsIdleBuckets(t *testing.T) {
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60, 1)
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow(1))
	clock = clock.Add(4 * time.Minute)
	assert.True(t, rl.Allow(2))
	assert.Equal(t, 0, rl.Cleanup())

	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, rl.Cleanup())
	assert.NotContains(t, rl.limiters, uint64(1))
	assert.Contains(t, rl.limiters, uint64(2))

	// an evicted user starts with a fresh bucket
	assert.True(t, rl.Allow(1))
	assert.Len(t, rl.limiters, 2)
}
