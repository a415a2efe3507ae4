package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	id, err := s.Create(ctx, "notes", entities.Document{"userId": "u1", "title": "a", "pinned": false})
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:notes:doc:"+id))

	require.NoError(t, s.Merge(ctx, "notes", id, entities.Document{"pinned": true}))

	rec, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	assert.Equal(t, "a", rec.Data["title"])
	assert.Equal(t, true, rec.Data["pinned"])

	require.NoError(t, s.Delete(ctx, "notes", id))
	_, err = s.Get(ctx, "notes", id)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "notes", id), entities.ErrNotFound)
	assert.ErrorIs(t, s.Merge(ctx, "notes", id, entities.Document{}), entities.ErrNotFound)
}

func TestRedisStore_FindFiltersInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	for _, doc := range []entities.Document{
		{"userId": "u1", "title": "first"},
		{"userId": "u2", "title": "other"},
		{"userId": "u1", "title": "second"},
	} {
		_, err := s.Create(ctx, "notes", doc)
		require.NoError(t, err)
	}

	recs, err := s.Find(ctx, "notes", ports.Eq("userId", "u1"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "first", recs[0].Data["title"])
	assert.Equal(t, "second", recs[1].Data["title"])

	none, err := s.Find(ctx, "tasks")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRedisStore_BackendFailure(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.Create(ctx, "notes", entities.Document{"title": "a"})
	assert.ErrorIs(t, err, entities.ErrStorage)
	assert.ErrorIs(t, s.Ping(ctx), entities.ErrStorage)
}

func TestRedisStore_ConcurrentMerges(t *testing.T) {
	ctx := context.Background()
	s, _ := newRedisStore(t)

	id, err := s.Create(ctx, "notes", entities.Document{"userId": "u1", "title": "shared"})
	require.NoError(t, err)

	const writers = 20
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Merge(ctx, "notes", id, entities.Document{
				fmt.Sprintf("field%d", i): true,
				"title":                   fmt.Sprintf("writer %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "writer %d", i)
	}

	rec, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	for i := 0; i < writers; i++ {
		assert.Equal(t, true, rec.Data[fmt.Sprintf("field%d", i)])
	}
	assert.Regexp(t, `^writer \d+$`, rec.Data["title"])
}
