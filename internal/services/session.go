package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore issues and checks session tokens kept in Redis. A user has at
// most one live token; issuing a new one revokes the old.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// CreateSession creates a new session for a user and returns its token.
// Any earlier session of the same user is invalidated so the 7-day timer
// restarts from this login.
func (s *SessionStore) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if err := s.InvalidateUserSessions(ctx, userID); err != nil {
		return "", err
	}

	sessionToken, err := newToken()
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SessionKeyPrefix+sessionToken, userID.String(), SessionDuration)
	pipe.Set(ctx, UserSessionKeyPrefix+userID.String(), sessionToken, SessionDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sessionToken, nil
}

// ValidateSession checks if a session token is valid and returns the user ID
func (s *SessionStore) ValidateSession(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.client.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

// InvalidateSession removes a session from Redis
func (s *SessionStore) InvalidateSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		if err := s.client.Del(ctx, UserSessionKeyPrefix+userIDStr).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions drops the user's current token, if any.
func (s *SessionStore) InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	sessionToken, err := s.client.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		if err := s.client.Del(ctx, SessionKeyPrefix+sessionToken).Err(); err != nil {
			return err
		}
	}
	return s.client.Del(ctx, userSessionKey).Err()
}

// newToken returns 32 random bytes, URL-safe base64 encoded.
func newToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}
