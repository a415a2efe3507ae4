package database

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable opens a pool without connecting; nothing listens on port 1.
func unreachable(t *testing.T) *DB {
	t.Helper()
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=smartnote dbname=smartnote sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(3)
	conn := &DB{DB: db}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGetConnectionInfo(t *testing.T) {
	info := unreachable(t).GetConnectionInfo()

	assert.Equal(t, 3, info["max_open_connections"])
	assert.Equal(t, 0, info["open_connections"])
	assert.Equal(t, 0, info["in_use"])
	assert.Equal(t, "0s", info["wait_duration"])
}

func TestHealthCheck_Unreachable(t *testing.T) {
	err := unreachable(t).HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database health check failed")
}

func TestClose_NilPool(t *testing.T) {
	assert.NoError(t, (&DB{}).Close())
}
