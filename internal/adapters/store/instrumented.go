package store

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// InstrumentedStore counts every store operation by collection and outcome
type InstrumentedStore struct {
	next       ports.DocumentStore
	operations *prometheus.CounterVec
}

// NewInstrumentedStore wraps next and registers its counter with reg
func NewInstrumentedStore(next ports.DocumentStore, reg prometheus.Registerer) (*InstrumentedStore, error) {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartnote_store_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "operation", "result"},
	)
	if err := reg.Register(operations); err != nil {
		return nil, err
	}
	return &InstrumentedStore{next: next, operations: operations}, nil
}

func (s *InstrumentedStore) observe(collection, op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	s.operations.WithLabelValues(collection, op, result).Inc()
}

func (s *InstrumentedStore) Create(ctx context.Context, collection string, doc entities.Document) (string, error) {
	id, err := s.next.Create(ctx, collection, doc)
	s.observe(collection, "create", err)
	return id, err
}

func (s *InstrumentedStore) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	rec, err := s.next.Get(ctx, collection, id)
	s.observe(collection, "get", err)
	return rec, err
}

func (s *InstrumentedStore) Find(ctx context.Context, collection string, filters ...ports.Filter) ([]*ports.Record, error) {
	recs, err := s.next.Find(ctx, collection, filters...)
	s.observe(collection, "find", err)
	return recs, err
}

func (s *InstrumentedStore) Merge(ctx context.Context, collection, id string, patch entities.Document) error {
	err := s.next.Merge(ctx, collection, id, patch)
	s.observe(collection, "merge", err)
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, collection, id string) error {
	err := s.next.Delete(ctx, collection, id)
	s.observe(collection, "delete", err)
	return err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
