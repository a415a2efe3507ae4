package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// FieldID is the key the store-assigned id is exposed under
const FieldID = "id"

// Schema describes how one entity type maps onto a document collection.
type Schema[T any] struct {
	// Entity is the display name used in error messages ("Note").
	Entity     string
	Collection string
	// Required fields must be present and non-blank on create.
	Required []string
	// RequiredMessage overrides the default missing-fields message.
	RequiredMessage string
	// Defaults fill fields absent on create.
	Defaults entities.Document
	// Immutable fields are dropped from update patches.
	Immutable []string
	// BeforeCreate may stamp or transform the document before it is written.
	BeforeCreate func(doc entities.Document, now time.Time) error
	// BeforeUpdate may transform the patch before it is merged.
	BeforeUpdate func(patch entities.Document) error
	// Decode overrides the JSON mapping from document to entity.
	Decode func(id string, doc entities.Document) (*T, error)
}

// DocumentRepository implements ports.Repository on top of a DocumentStore
type DocumentRepository[T any] struct {
	store    ports.DocumentStore
	schema   Schema[T]
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a DocumentRepository
type Option[T any] func(*DocumentRepository[T])

// WithClock overrides the time source used for server-side timestamps
func WithClock[T any](now func() time.Time) Option[T] {
	return func(r *DocumentRepository[T]) {
		r.now = now
	}
}

// New creates a repository for one collection
func New[T any](store ports.DocumentStore, schema Schema[T], opts ...Option[T]) *DocumentRepository[T] {
	r := &DocumentRepository[T]{
		store:    store,
		schema:   schema,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (r *DocumentRepository[T]) Create(ctx context.Context, fields entities.Document) (*T, error) {
	doc := fields.Clone()
	delete(doc, FieldID)

	if missing := r.missingRequired(doc); len(missing) > 0 {
		msg := r.schema.RequiredMessage
		if msg == "" {
			msg = "Missing required fields: " + strings.Join(missing, ", ")
		}
		return nil, entities.ValidationError(msg)
	}

	for field, value := range r.schema.Defaults {
		if v, ok := doc[field]; !ok || v == nil {
			doc[field] = value
		}
	}

	if r.schema.BeforeCreate != nil {
		if err := r.schema.BeforeCreate(doc, r.now().UTC()); err != nil {
			return nil, err
		}
	}

	if _, err := r.check("", doc); err != nil {
		return nil, err
	}

	id, err := r.store.Create(ctx, r.schema.Collection, doc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.schema.Collection, err)
	}

	return r.decode(id, doc)
}

func (r *DocumentRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rec, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.decode(rec.ID, rec.Data)
}

// ListByUser returns every record owned by userID. A blank userID is
// rejected rather than matching ownerless records.
func (r *DocumentRepository[T]) ListByUser(ctx context.Context, userID string) ([]*T, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, entities.ValidationError("Missing required query parameter: userId")
	}
	return r.Find(ctx, ports.Eq("userId", userID))
}

func (r *DocumentRepository[T]) Find(ctx context.Context, filters ...ports.Filter) ([]*T, error) {
	recs, err := r.store.Find(ctx, r.schema.Collection, filters...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.schema.Collection, err)
	}

	items := make([]*T, 0, len(recs))
	for _, rec := range recs {
		item, err := r.decode(rec.ID, rec.Data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Update merges patch into the stored record and returns the record as
// stored after the merge.
func (r *DocumentRepository[T]) Update(ctx context.Context, id string, patch entities.Document) (*T, error) {
	current, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch = patch.Clone()
	delete(patch, FieldID)
	for _, field := range r.schema.Immutable {
		delete(patch, field)
	}

	if r.schema.BeforeUpdate != nil {
		if err := r.schema.BeforeUpdate(patch); err != nil {
			return nil, err
		}
	}

	merged := current.Data.Clone()
	for k, v := range patch {
		merged[k] = v
	}
	if _, err := r.check(id, merged); err != nil {
		return nil, err
	}

	if err := r.store.Merge(ctx, r.schema.Collection, id, patch); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, entities.NotFoundError(r.schema.Entity)
		}
		return nil, fmt.Errorf("update %s: %w", r.schema.Collection, err)
	}

	return r.GetByID(ctx, id)
}

func (r *DocumentRepository[T]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.schema.Collection, id); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.NotFoundError(r.schema.Entity)
		}
		return fmt.Errorf("delete %s: %w", r.schema.Collection, err)
	}
	return nil
}

func (r *DocumentRepository[T]) get(ctx context.Context, id string) (*ports.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, entities.NotFoundError(r.schema.Entity)
	}
	rec, err := r.store.Get(ctx, r.schema.Collection, id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, entities.NotFoundError(r.schema.Entity)
		}
		return nil, fmt.Errorf("get %s: %w", r.schema.Collection, err)
	}
	return rec, nil
}

func (r *DocumentRepository[T]) missingRequired(doc entities.Document) []string {
	var missing []string
	for _, field := range r.schema.Required {
		if !doc.Present(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// check verifies that doc decodes into T and satisfies T's validate tags
func (r *DocumentRepository[T]) check(id string, doc entities.Document) (*T, error) {
	item, err := r.decodeWith(id, doc)
	if err != nil {
		return nil, entities.ValidationError(fmt.Sprintf("Invalid %s: %v", strings.ToLower(r.schema.Entity), err))
	}
	if err := r.validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, entities.ValidationError(describe(r.schema.Entity, verrs))
		}
		return nil, entities.ValidationError(err.Error())
	}
	return item, nil
}

func (r *DocumentRepository[T]) decode(id string, doc entities.Document) (*T, error) {
	item, err := r.decodeWith(id, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s %s: %v", entities.ErrStorage, r.schema.Collection, id, err)
	}
	return item, nil
}

func (r *DocumentRepository[T]) decodeWith(id string, doc entities.Document) (*T, error) {
	if r.schema.Decode != nil {
		return r.schema.Decode(id, doc)
	}
	return DecodeJSON[T](id, doc)
}

// DecodeJSON maps a document onto T through its json tags
func DecodeJSON[T any](id string, doc entities.Document) (*T, error) {
	withID := doc.Clone()
	withID[FieldID] = id

	data, err := json.Marshal(withID)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func describe(entity string, verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		default:
			parts = append(parts, fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(entity), strings.Join(parts, "; "))
}
