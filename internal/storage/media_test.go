package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindmate-backend/internal/database"
)

// exerciseMedium checks the contract every backend must honor.
func exerciseMedium(t *testing.T, m Medium) {
	t.Helper()
	ctx := context.Background()

	_, found, err := m.Get(ctx, "journal_entries")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "journal_entries", []byte(`[{"id":1}]`)))
	require.NoError(t, m.Set(ctx, "journal_entries", []byte(`[{"id":2}]`)))

	got, found, err := m.Get(ctx, "journal_entries")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":2}]`, string(got))

	_, found, err = m.Get(ctx, "mood_history")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryMedium(t *testing.T) {
	exerciseMedium(t, NewMemory())
}

func TestSQLiteMedium(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "mindmate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	exerciseMedium(t, NewSQL(db, DialectSQLite))
}

func TestSQLiteMedium_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mindmate.db")
	ctx := context.Background()

	db, err := database.OpenSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, NewSQL(db, DialectSQLite).Set(ctx, "preferences", []byte(`{"theme":"dark"}`)))
	require.NoError(t, db.Close())

	db, err = database.OpenSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	got, found, err := NewSQL(db, DialectSQLite).Get(ctx, "preferences")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"theme":"dark"}`, string(got))
}

func TestPostgresMedium(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
		WithArgs("mood_history").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(`INSERT INTO kv_store \(key, value, updated_at\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("mood_history", `[{"id":3}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
		WithArgs("mood_history").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":3}]`))

	m := NewSQL(db, DialectPostgres)
	ctx := context.Background()

	_, found, err := m.Get(ctx, "mood_history")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "mood_history", []byte(`[{"id":3}]`)))

	got, found, err := m.Get(ctx, "mood_history")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":3}]`, string(got))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisMedium(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseMedium(t, NewRedis(client))

	raw, err := srv.Get(RedisKeyPrefix + "journal_entries")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, raw)
	assert.Zero(t, srv.TTL(RedisKeyPrefix+"journal_entries"))
}

func TestMongoMedium(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()

	client, db, err := database.ConnectMongo(ctx, uri, zapNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Collection(MongoCollection).Drop(context.Background())
		_ = database.DisconnectMongo(client)
	})
	require.NoError(t, db.Collection(MongoCollection).Drop(ctx))

	exerciseMedium(t, NewMongo(db))
}
