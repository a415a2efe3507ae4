package ports

import (
	"context"

	"github.com/smartnote/core/internal/domain/entities"
)

// NoteService interface for note operations
type NoteService interface {
	CreateNote(ctx context.Context, fields entities.Document) (*entities.Note, error)
	GetNote(ctx context.Context, id string) (*entities.Note, error)
	ListNotes(ctx context.Context, userID string) ([]*entities.Note, error)
	UpdateNote(ctx context.Context, id string, patch entities.Document) (*entities.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// TaskService interface for task operations
type TaskService interface {
	CreateTask(ctx context.Context, fields entities.Document) (*entities.Task, error)
	GetTask(ctx context.Context, id string) (*entities.Task, error)
	ListTasks(ctx context.Context, userID string) ([]*entities.Task, error)
	UpdateTask(ctx context.Context, id string, patch entities.Document) (*entities.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// UserService interface for user management and login
type UserService interface {
	CreateUser(ctx context.Context, fields entities.Document) (*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	UpdateUser(ctx context.Context, id string, patch entities.Document) (*entities.User, error)
	DeleteUser(ctx context.Context, id string) error
	Login(ctx context.Context, req LoginRequest) (*entities.Profile, error)
}

// LoginRequest carries the credentials posted to /api/users/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse acknowledges an operation with no payload
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
