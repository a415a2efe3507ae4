package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "notes", entities.Document{"title": "a"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "a", rec.Data["title"])
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "notes", entities.Document{"title": "a"})
	require.NoError(t, err)

	rec, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	rec.Data["title"] = "changed"

	again, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Data["title"])
}

func TestMemoryStore_MissingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "notes", "nope")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.ErrorIs(t, s.Merge(ctx, "notes", "nope", entities.Document{"a": 1.0}), entities.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "notes", "nope"), entities.ErrNotFound)
}

func TestMemoryStore_FindPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, doc := range []entities.Document{
		{"userId": "u1", "title": "first"},
		{"userId": "u2", "title": "other"},
		{"userId": "u1", "title": "second"},
		{"title": "orphan"},
	} {
		_, err := s.Create(ctx, "notes", doc)
		require.NoError(t, err)
	}

	recs, err := s.Find(ctx, "notes", ports.Eq("userId", "u1"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Data["title"])
	assert.Equal(t, "second", recs[1].Data["title"])

	orphans, err := s.Find(ctx, "notes", ports.Eq("userId", nil))
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan", orphans[0].Data["title"])

	empty, err := s.Find(ctx, "tasks", ports.Eq("userId", "u1"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_FindMultipleFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Create(ctx, "users", entities.Document{"email": "a@x.io", "username": "a"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "users", entities.Document{"email": "a@x.io", "username": "b"})
	require.NoError(t, err)

	recs, err := s.Find(ctx, "users", ports.Eq("email", "a@x.io"), ports.Eq("username", "b"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].Data["username"])
}

func TestMemoryStore_MergeKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "notes", entities.Document{"title": "a", "content": "body", "pinned": false})
	require.NoError(t, err)

	require.NoError(t, s.Merge(ctx, "notes", id, entities.Document{"pinned": true}))

	rec, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, entities.Document{"title": "a", "content": "body", "pinned": true}, rec.Data)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Create(ctx, "notes", entities.Document{"userId": "u1"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "notes", id))

	_, err = s.Get(ctx, "notes", id)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	recs, err := s.Find(ctx, "notes", ports.Eq("userId", "u1"))
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, s.Delete(ctx, "notes", id), entities.ErrNotFound)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Create(ctx, "notes", entities.Document{})
	assert.ErrorIs(t, err, entities.ErrStorage)
}
