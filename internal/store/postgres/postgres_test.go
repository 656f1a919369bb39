package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

func TestDSN(t *testing.T) {
	t.Run("explicit dsn wins", func(t *testing.T) {
		assert.Equal(t, "postgres://x", DSN(ClientConfig{DSN: "postgres://x", Host: "ignored"}))
	})

	t.Run("built from fields", func(t *testing.T) {
		got := DSN(ClientConfig{Host: "db", Database: "watch", User: "u", Password: "p"})
		assert.Equal(t, "postgres://u:p@db:5432/watch?sslmode=disable", got)
	})

	t.Run("password is escaped", func(t *testing.T) {
		got := DSN(ClientConfig{Host: "db", Port: 6543, Database: "watch", User: "u", Password: "p@ss/word", SSLMode: "require"})
		assert.Equal(t, "postgres://u:p%40ss%2Fword@db:6543/watch?sslmode=require", got)
	})
}

func TestMigrationFilesOrdered(t *testing.T) {
	names, err := migrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_tracker_state.sql", "002_audit_log.sql"}, names)
}

func TestSnapshotCodec(t *testing.T) {
	data, err := encodeSnapshot(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	snap, err := decodeSnapshot(data)
	require.NoError(t, err)
	assert.Nil(t, snap)

	in := domain.Snapshot{"c:0:a": {Title: "T", Size: 1.5}}
	data, err = encodeSnapshot(in)
	require.NoError(t, err)
	out, err := decodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = decodeSnapshot([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, domain.ErrCorruptState)
}
