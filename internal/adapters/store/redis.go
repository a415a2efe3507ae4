package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/config"
	"github.com/smartnote/core/internal/ports"
)

// RedisStore keeps each document as a JSON string under
// <prefix>:<collection>:doc:<id>. A sorted set per collection, scored by an
// INCR sequence, preserves insertion order for Find.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and checks the connection
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %v", entities.ErrStorage, cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "smartnote"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(collection, id string) string {
	return s.prefix + ":" + collection + ":doc:" + id
}

func (s *RedisStore) indexKey(collection string) string {
	return s.prefix + ":" + collection + ":ids"
}

func (s *RedisStore) seqKey(collection string) string {
	return s.prefix + ":" + collection + ":seq"
}

func (s *RedisStore) Create(ctx context.Context, collection string, doc entities.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("%w: encode document: %v", entities.ErrStorage, err)
	}

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return "", storageError("create", collection, err)
	}

	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(collection, id), data, 0)
		pipe.ZAdd(ctx, s.indexKey(collection), &redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", storageError("create", collection, err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	raw, err := s.client.Get(ctx, s.docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, storageError("get", collection, err)
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	return &ports.Record{ID: id, Data: doc}, nil
}

func (s *RedisStore) Find(ctx context.Context, collection string, filters ...ports.Filter) ([]*ports.Record, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, storageError("find", collection, err)
	}

	records := []*ports.Record{}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageError("find", collection, err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return nil, err
		}
		if matches(doc, filters) {
			records = append(records, &ports.Record{ID: ids[i], Data: doc})
		}
	}
	return records, nil
}

// mergeRetries bounds how often Merge re-runs after a concurrent write to
// the same document aborted its transaction.
const mergeRetries = 100

// Merge applies patch with WATCH/MULTI, retrying when a concurrent write
// to the same document aborts the transaction.
func (s *RedisStore) Merge(ctx context.Context, collection, id string, patch entities.Document) error {
	key := s.docKey(collection, id)

	apply := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return entities.ErrNotFound
		}
		if err != nil {
			return err
		}

		doc, err := decodeDocument(raw)
		if err != nil {
			return err
		}
		for k, v := range patch {
			doc[k] = v
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("%w: encode document: %v", entities.ErrStorage, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < mergeRetries; i++ {
		err = s.client.Watch(ctx, apply, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, entities.ErrNotFound), errors.Is(err, entities.ErrStorage):
		return err
	default:
		return storageError("merge", collection, err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.docKey(collection, id))
		pipe.ZRem(ctx, s.indexKey(collection), id)
		return nil
	})
	if err != nil {
		return storageError("delete", collection, err)
	}
	if del.Val() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storageError("ping", "", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeDocument(raw []byte) (entities.Document, error) {
	var doc entities.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", entities.ErrStorage, err)
	}
	return doc, nil
}

func storageError(op, collection string, err error) error {
	return fmt.Errorf("%w: redis %s %s: %v", entities.ErrStorage, op, collection, err)
}
