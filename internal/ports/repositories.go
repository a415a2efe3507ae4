package ports

import (
	"context"

	"github.com/smartnote/core/internal/domain/entities"
)

// Record is a stored document together with its store-assigned id
type Record struct {
	ID   string
	Data entities.Document
}

// Filter is an equality predicate on a top-level document field
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// DocumentStore defines the keyed-record store every collection is persisted in.
// Implementations wrap backend failures in entities.ErrStorage and report
// missing ids with entities.ErrNotFound.
type DocumentStore interface {
	// Create writes a new document and returns the id assigned by the store.
	Create(ctx context.Context, collection string, doc entities.Document) (string, error)
	Get(ctx context.Context, collection, id string) (*Record, error)
	// Find returns the documents matching every filter, in store-defined order.
	Find(ctx context.Context, collection string, filters ...Filter) ([]*Record, error)
	// Merge sets the given fields on an existing document, leaving others untouched.
	Merge(ctx context.Context, collection, id string, patch entities.Document) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Repository defines the CRUD operations shared by every entity collection
type Repository[T any] interface {
	Create(ctx context.Context, fields entities.Document) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	ListByUser(ctx context.Context, userID string) ([]*T, error)
	Find(ctx context.Context, filters ...Filter) ([]*T, error)
	Update(ctx context.Context, id string, patch entities.Document) (*T, error)
	Delete(ctx context.Context, id string) error
}
