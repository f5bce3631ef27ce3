package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMemory_AppliesSchema(t *testing.T) {
	db, err := OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	err = db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)

	assert.Equal(t, []string{"comments", "follows", "likes", "notifications", "posts", "users"}, tables)

	// Running it again is a no-op.
	require.NoError(t, Migrate(context.Background(), db))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	defer db.Close()

	insert := `INSERT INTO users (id, external_auth_id, username, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err = db.Exec(insert, "u1", "ext-1", "alice")
	require.NoError(t, err)

	_, err = db.Exec(insert, "u2", "ext-2", "alice")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", err)))

	_, err = db.Exec(insert, "u1", "ext-3", "bob")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "primary key clash counts as unique violation")
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenSQLiteMemory(context.Background())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO posts (id, author_id, content, created_at) VALUES ('p1', 'ghost', 'x', CURRENT_TIMESTAMP)`)
	assert.Error(t, err, "post with unknown author must be rejected")
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err))
}

func TestIsForeignKeyViolation_Postgres(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
	assert.False(t, IsForeignKeyViolation(nil))
}
