package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/pkg/utils"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrBackendUnavailable = errors.New("identity backend unavailable")
)

// AccountBackend is the real identity backend: accounts in Postgres,
// session tokens in Redis. Without a database it reports
// ErrBackendUnavailable; without Redis it authenticates but issues no token.
type AccountBackend struct {
	db       *sql.DB
	sessions *SessionStore
}

func NewAccountBackend(db *sql.DB, sessions *SessionStore) *AccountBackend {
	return &AccountBackend{db: db, sessions: sessions}
}

func (b *AccountBackend) Register(ctx context.Context, email, password string) (models.User, string, error) {
	if b.db == nil {
		return models.User{}, "", ErrBackendUnavailable
	}
	normalized := utils.NormalizeEmail(email)

	var existing string
	err := b.db.QueryRowContext(ctx, `SELECT email FROM users WHERE LOWER(email) = $1`, normalized).Scan(&existing)
	if err == nil {
		return models.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", fmt.Errorf("register: lookup: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: hash password: %w", err)
	}

	userID := uuid.New()
	createdAt := time.Now().UTC()
	_, err = b.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, userID, normalized, hashedPassword, createdAt)
	if err != nil {
		return models.User{}, "", fmt.Errorf("register: insert: %w", err)
	}

	user := models.User{ID: userID.String(), Email: normalized, DisplayName: utils.DisplayName(normalized), CreatedAt: createdAt}
	token, err := b.issueToken(ctx, userID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (b *AccountBackend) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if b.db == nil {
		return models.User{}, "", ErrBackendUnavailable
	}
	normalized := utils.NormalizeEmail(email)

	var userID uuid.UUID
	var passwordHash string
	var createdAt time.Time
	var isActive bool
	err := b.db.QueryRowContext(ctx, `
		SELECT id, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(email) = $1
	`, normalized).Scan(&userID, &passwordHash, &createdAt, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("login: lookup: %w", err)
	}
	if !isActive {
		return models.User{}, "", ErrAccountInactive
	}

	valid, err := utils.VerifyPassword(password, passwordHash)
	if err != nil || !valid {
		return models.User{}, "", ErrInvalidCredentials
	}

	user := models.User{ID: userID.String(), Email: normalized, DisplayName: utils.DisplayName(normalized), CreatedAt: createdAt}
	token, err := b.issueToken(ctx, userID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

func (b *AccountBackend) Logout(ctx context.Context, token string) error {
	if b.sessions == nil {
		return nil
	}
	return b.sessions.InvalidateSession(ctx, token)
}

// Validate reports whether token still maps to a live session. Without
// Redis there is nothing to expire, so every session stays valid.
func (b *AccountBackend) Validate(ctx context.Context, token string) (bool, error) {
	if b.sessions == nil {
		return true, nil
	}
	_, ok, err := b.sessions.ValidateSession(ctx, token)
	return ok, err
}

func (b *AccountBackend) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if b.sessions == nil {
		return "", nil
	}
	token, err := b.sessions.CreateSession(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
