package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/database"
	"github.com/smartnote/core/internal/ports"
)

func TestBuildFindQuery_NoFilters(t *testing.T) {
	query, args, err := buildFindQuery("notes", nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, data FROM documents WHERE collection = $1 ORDER BY seq", query)
	assert.Equal(t, []any{"notes"}, args)
}

func TestBuildFindQuery_Containment(t *testing.T) {
	query, args, err := buildFindQuery("users", []ports.Filter{ports.Eq("email", "a@x.io")})
	require.NoError(t, err)

	assert.Contains(t, query, "data @> $2::jsonb")
	require.Len(t, args, 2)
	assert.JSONEq(t, `{"email":"a@x.io"}`, string(args[1].(types.JSONText)))
}

func TestBuildFindQuery_NilValue(t *testing.T) {
	query, args, err := buildFindQuery("notes", []ports.Filter{ports.Eq("userId", nil), ports.Eq("pinned", true)})
	require.NoError(t, err)

	assert.Contains(t, query, "(data->$2 IS NULL OR data->$2 = 'null'::jsonb)")
	assert.Contains(t, query, "data @> $3::jsonb")
	require.Len(t, args, 3)
	assert.Equal(t, "userId", args[1])
	assert.JSONEq(t, `{"pinned":true}`, string(args[2].(types.JSONText)))
}

func TestPostgresStore_UnreachablePool(t *testing.T) {
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 user=smartnote dbname=smartnote sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)

	s := NewPostgresStore(&database.DB{DB: db})
	t.Cleanup(func() { s.Close() })

	assert.ErrorIs(t, s.Ping(context.Background()), entities.ErrStorage)
	assert.Equal(t, 4, s.ConnectionInfo()["max_open_connections"])
}
