package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesPeopleTable(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'people'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "people", name)
}

func TestRunSQLScriptsIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RunSQLScripts(db))
	assert.NoError(t, RunSQLScripts(db))
}

func TestInitAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")

	require.NoError(t, Init(path))
	require.NotNil(t, DB)
	assert.NoError(t, DB.Ping())
	assert.NoError(t, Close())
}
