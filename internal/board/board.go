// Package board is the client-side state behind the notes and tasks
// screens: fetch on load, filter by month and week, and patch the local
// collection after each mutation instead of refetching.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/filter"
	"github.com/smartnote/core/internal/infrastructure/logger"
)

// API is the remote collection a board works against
type API[T any] interface {
	Create(ctx context.Context, fields entities.Document) (*T, error)
	List(ctx context.Context, userID string) ([]*T, error)
	Update(ctx context.Context, id string, patch entities.Document) (*T, error)
	Delete(ctx context.Context, id string) (string, error)
}

// Board is one user's collection plus its filtered view
type Board[T any] struct {
	*filter.View[T]

	api    API[T]
	userID string
	logger *logger.Logger
}

func newBoard[T any](api API[T], userID string, spec filter.Spec[T], logger *logger.Logger) *Board[T] {
	return &Board[T]{
		View:   filter.New(spec),
		api:    api,
		userID: userID,
		logger: logger.WithUserID(userID),
	}
}

// Refresh fetches the user's collection, keeping the active filters
func (b *Board[T]) Refresh(ctx context.Context) error {
	items, err := b.api.List(ctx, b.userID)
	if err != nil {
		b.logger.WithError(err).Error("Failed to fetch records")
		return err
	}
	b.Load(items)
	return nil
}

// Add creates a record owned by the board's user
func (b *Board[T]) Add(ctx context.Context, fields entities.Document) (*T, error) {
	doc := fields.Clone()
	doc["userId"] = b.userID

	item, err := b.api.Create(ctx, doc)
	if err != nil {
		b.logger.WithError(err).Error("Failed to create record")
		return nil, err
	}
	b.Load(append(b.All(), item))
	return item, nil
}

// Patch updates a record remotely and swaps the stored result in locally
func (b *Board[T]) Patch(ctx context.Context, id string, patch entities.Document) (*T, error) {
	item, err := b.api.Update(ctx, id, patch)
	if err != nil {
		b.logger.WithError(err).Errorw("Failed to update record", "id", id)
		return nil, err
	}
	b.Replace(item)
	return item, nil
}

// Delete removes a record remotely and locally
func (b *Board[T]) Delete(ctx context.Context, id string) (string, error) {
	msg, err := b.api.Delete(ctx, id)
	if err != nil {
		b.logger.WithError(err).Errorw("Failed to delete record", "id", id)
		return "", err
	}
	b.Remove(id)
	return msg, nil
}

func (b *Board[T]) lookup(id string) (*T, error) {
	item, ok := b.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not on this board", entities.ErrNotFound, id)
	}
	return item, nil
}

// NoteSpec filters notes by creation date and shows pinned notes first
func NoteSpec(loc *time.Location) filter.Spec[entities.Note] {
	return filter.Spec[entities.Note]{
		ID:       func(n *entities.Note) string { return n.ID },
		Anchor:   func(n *entities.Note) time.Time { return n.AnchorDate() },
		Pinned:   func(n *entities.Note) bool { return n.Pinned },
		Location: loc,
	}
}

// TaskSpec filters tasks by due date
func TaskSpec(loc *time.Location) filter.Spec[entities.Task] {
	return filter.Spec[entities.Task]{
		ID:       func(t *entities.Task) string { return t.ID },
		Anchor:   func(t *entities.Task) time.Time { return t.AnchorDate() },
		Location: loc,
	}
}
