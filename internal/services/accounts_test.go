package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindmate-backend/pkg/utils"
)

const (
	loginQuery  = `SELECT id, password_hash, created_at, is_active\s+FROM users\s+WHERE LOWER\(email\) = \$1`
	lookupQuery = `SELECT email FROM users WHERE LOWER\(email\) = \$1`
	insertQuery = `INSERT INTO users \(id, email, password_hash, created_at, is_active\)`
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestAccountBackend_Unavailable(t *testing.T) {
	b := NewAccountBackend(nil, nil)
	ctx := context.Background()

	_, _, err := b.Login(ctx, "a@b.co", "secret1")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, _, err = b.Register(ctx, "a@b.co", "secret1")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.NoError(t, b.Logout(ctx, "anything"))
}

func TestAccountBackend_Register(t *testing.T) {
	db, mock := newMockDB(t)
	_, client := newRedis(t)
	b := NewAccountBackend(db, NewSessionStore(client))

	mock.ExpectQuery(lookupQuery).WithArgs("ana@example.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), "ana@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user, token, err := b.Register(context.Background(), " Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "ana", user.DisplayName)
	assert.NotEmpty(t, token)
	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)

	valid, err := b.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountBackend_RegisterTaken(t *testing.T) {
	db, mock := newMockDB(t)
	b := NewAccountBackend(db, nil)

	mock.ExpectQuery(lookupQuery).WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("ana@example.com"))

	_, _, err := b.Register(context.Background(), "ana@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountBackend_Login(t *testing.T) {
	db, mock := newMockDB(t)
	_, client := newRedis(t)
	b := NewAccountBackend(db, NewSessionStore(client))
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	userID := uuid.New()
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "password_hash", "created_at", "is_active"}).
		AddRow(userID.String(), hash, created, true)
	mock.ExpectQuery(loginQuery).WithArgs("ana@example.com").WillReturnRows(rows)

	user, token, err := b.Login(context.Background(), "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, userID.String(), user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NotEmpty(t, token)

	require.NoError(t, b.Logout(context.Background(), token))
	valid, err := b.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountBackend_LoginFailures(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		setup    func(sqlmock.Sqlmock)
		password string
		want     error
	}{
		{
			name: "unknown email",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(loginQuery).WillReturnError(sql.ErrNoRows)
			},
			password: "secret1",
			want:     ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(loginQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "created_at", "is_active"}).
					AddRow(uuid.NewString(), hash, time.Now(), true))
			},
			password: "secret2",
			want:     ErrInvalidCredentials,
		},
		{
			name: "inactive",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(loginQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "created_at", "is_active"}).
					AddRow(uuid.NewString(), hash, time.Now(), false))
			},
			password: "secret1",
			want:     ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.setup(mock)

			_, _, err := NewAccountBackend(db, nil).Login(context.Background(), "ana@example.com", tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccountBackend_LoginDatabaseDown(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(loginQuery).WillReturnError(errors.New("connection refused"))

	_, _, err := NewAccountBackend(db, nil).Login(context.Background(), "ana@example.com", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountBackend_WithoutRedisHasNoToken(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(lookupQuery).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(1, 1))
	b := NewAccountBackend(db, nil)

	_, token, err := b.Register(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Empty(t, token)

	valid, err := b.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, valid)
}
