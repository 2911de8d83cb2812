package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "crm.db")

	database, err := Open(path, nil)
	require.NoError(t, err)
	version, err := SchemaVersion(database)
	require.NoError(t, err)
	assert.Equal(t, LatestVersion(), version)
	require.NoError(t, database.Close())

	database, err = Open(path, nil)
	require.NoError(t, err)
	defer database.Close()

	var rows int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	assert.Equal(t, len(migrations), rows)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	database, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO clients (id, company_id, type, name, status, created_by, created_at, updated_at)
		VALUES ('c1', 'missing', 'individual', 'Ana', 'active', 'u1', 'x', 'x')`)
	assert.Error(t, err)
}

func TestSeedDemo(t *testing.T) {
	database, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer database.Close()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	res, err := SeedDemo(database, now)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	count := func(table string) int {
		var n int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		return n
	}
	assert.Equal(t, 1, count("companies"))
	assert.Equal(t, 1, count("profiles"))
	assert.Equal(t, 3, count("clients"))
	assert.Equal(t, 2, count("proposals"))
	assert.Equal(t, 4, count("tasks"))
	assert.Equal(t, 2, count("notifications"))

	var hash string
	require.NoError(t, database.QueryRow("SELECT password_hash FROM users WHERE email = ?", DemoEmail).Scan(&hash))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(DemoPassword)))

	again, err := SeedDemo(database, now)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, res.CompanyID, again.CompanyID)
	assert.Equal(t, 3, count("clients"))
}
