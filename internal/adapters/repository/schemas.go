package repository

import (
	"time"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// Document fields with server-side meaning
const (
	FieldCreatedAt    = "createdAt"
	FieldPassword     = "password"
	FieldPasswordHash = "passwordHash"
)

// PasswordHasher turns a clear-text password into its stored form
type PasswordHasher func(password string) (string, error)

// NoteSchema requires userId, title and content, stamps createdAt once and
// keeps it immutable.
func NoteSchema() Schema[entities.Note] {
	return Schema[entities.Note]{
		Entity:          "Note",
		Collection:      entities.CollectionNotes,
		Required:        []string{"userId", "title", "content"},
		RequiredMessage: "Missing required fields: userId, title, or content",
		Defaults: entities.Document{
			"pinned": false,
			"color":  entities.DefaultColor,
		},
		Immutable: []string{FieldCreatedAt},
		BeforeCreate: func(doc entities.Document, now time.Time) error {
			doc[FieldCreatedAt] = now.Format(time.RFC3339Nano)
			return nil
		},
	}
}

// TaskSchema has no required fields
func TaskSchema() Schema[entities.Task] {
	return Schema[entities.Task]{
		Entity:     "Task",
		Collection: entities.CollectionTasks,
		Defaults: entities.Document{
			"completed": false,
			"color":     entities.DefaultColor,
		},
	}
}

// UserSchema stores only the hashed form of a password
func UserSchema(hash PasswordHasher) Schema[entities.User] {
	hashInto := func(doc entities.Document) error {
		raw, ok := doc[FieldPassword]
		delete(doc, FieldPassword)
		if !ok || raw == nil {
			return nil
		}
		password, ok := raw.(string)
		if !ok {
			return entities.ValidationError("Invalid user: password must be a string")
		}
		hashed, err := hash(password)
		if err != nil {
			return err
		}
		doc[FieldPasswordHash] = hashed
		return nil
	}

	return Schema[entities.User]{
		Entity:     "User",
		Collection: entities.CollectionUsers,
		Immutable:  []string{FieldPasswordHash},
		BeforeCreate: func(doc entities.Document, _ time.Time) error {
			delete(doc, FieldPasswordHash)
			return hashInto(doc)
		},
		BeforeUpdate: hashInto,
		Decode: func(id string, doc entities.Document) (*entities.User, error) {
			user, err := DecodeJSON[entities.User](id, doc)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = doc.String(FieldPasswordHash)
			return user, nil
		},
	}
}

// NewNoteRepository creates the notes repository
func NewNoteRepository(store ports.DocumentStore, opts ...Option[entities.Note]) *DocumentRepository[entities.Note] {
	return New(store, NoteSchema(), opts...)
}

// NewTaskRepository creates the tasks repository
func NewTaskRepository(store ports.DocumentStore, opts ...Option[entities.Task]) *DocumentRepository[entities.Task] {
	return New(store, TaskSchema(), opts...)
}

// NewUserRepository creates the users repository
func NewUserRepository(store ports.DocumentStore, hash PasswordHasher, opts ...Option[entities.User]) *DocumentRepository[entities.User] {
	return New(store, UserSchema(hash), opts...)
}
