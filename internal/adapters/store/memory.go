package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// MemoryStore is a process-local DocumentStore. Documents are returned in
// insertion order, which keeps listings deterministic for tests and demos.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
	newID       func() string
}

type memoryCollection struct {
	order []string
	docs  map[string]entities.Document
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		newID:       func() string { return uuid.NewString() },
	}
}

func (s *MemoryStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string]entities.Document)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Create(ctx context.Context, collection string, doc entities.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	c := s.collection(collection)
	c.order = append(c.order, id)
	c.docs[id] = doc.Clone()
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, entities.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &ports.Record{ID: id, Data: doc.Clone()}, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filters ...ports.Filter) ([]*ports.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []*ports.Record{}
	c, ok := s.collections[collection]
	if !ok {
		return records, nil
	}
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, filters) {
			records = append(records, &ports.Record{ID: id, Data: doc.Clone()})
		}
	}
	return records, nil
}

func (s *MemoryStore) Merge(ctx context.Context, collection, id string, patch entities.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return entities.ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return entities.ErrNotFound
	}
	merged := doc.Clone()
	for k, v := range patch {
		merged[k] = v
	}
	c.docs[id] = merged
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		return entities.ErrNotFound
	}
	if _, ok := c.docs[id]; !ok {
		return entities.ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// matches reports whether doc satisfies every equality filter. A nil filter
// value matches documents where the field is absent or null.
func matches(doc entities.Document, filters []ports.Filter) bool {
	for _, f := range filters {
		v, ok := doc[f.Field]
		if f.Value == nil {
			if ok && v != nil {
				return false
			}
			continue
		}
		if !ok || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}
	return true
}
