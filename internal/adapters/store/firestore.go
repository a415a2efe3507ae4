package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/config"
	"github.com/smartnote/core/internal/ports"
)

// FirestoreStore persists collections as Firestore collections with
// Firestore-assigned document ids.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore initialises a Firebase app and opens its Firestore client
func NewFirestoreStore(ctx context.Context, cfg config.FirestoreConfig) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, doc entities.Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]interface{}(doc))
	if err != nil {
		return "", wrapFirestoreError(err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*ports.Record, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapFirestoreError(err)
	}
	return &ports.Record{ID: snap.Ref.ID, Data: entities.Document(snap.Data())}, nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, filters ...ports.Filter) ([]*ports.Record, error) {
	query := s.client.Collection(collection).Query
	for _, f := range filters {
		query = query.Where(f.Field, "==", f.Value)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreError(err)
	}

	records := make([]*ports.Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, &ports.Record{ID: snap.Ref.ID, Data: entities.Document(snap.Data())})
	}
	return records, nil
}

func (s *FirestoreStore) Merge(ctx context.Context, collection, id string, patch entities.Document) error {
	ref := s.client.Collection(collection).Doc(id)
	if len(patch) == 0 {
		_, err := ref.Get(ctx)
		return wrapFirestoreError(err)
	}

	updates := make([]firestore.Update, 0, len(patch))
	for field, value := range patch {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{field}, Value: value})
	}

	_, err := ref.Update(ctx, updates)
	return wrapFirestoreError(err)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	return wrapFirestoreError(err)
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return wrapFirestoreError(err)
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func wrapFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return entities.ErrNotFound
	}
	return fmt.Errorf("%w: firestore: %v", entities.ErrStorage, err)
}
