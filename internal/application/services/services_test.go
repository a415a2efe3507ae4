package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartnote/core/internal/adapters/repository"
	"github.com/smartnote/core/internal/adapters/store"
	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

func newUserService() *UserService {
	repo := repository.NewUserRepository(store.NewMemoryStore(), BcryptHasher(bcrypt.MinCost))
	return NewUserService(repo, logger.NewNop())
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	user, err := svc.CreateUser(ctx, entities.Document{
		"username": "ada", "email": "ada@example.com", "password": "lovelace",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "lovelace", user.PasswordHash)

	profile, err := svc.Login(ctx, ports.LoginRequest{Email: "ada@example.com", Password: "lovelace"})
	require.NoError(t, err)
	assert.Equal(t, entities.Profile{ID: user.ID, Username: "ada", Email: "ada@example.com"}, *profile)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	_, err := svc.CreateUser(ctx, entities.Document{
		"username": "ada", "email": "ada@example.com", "password": "lovelace",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "ada@example.com", Password: "babbage"})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, err := newUserService().Login(context.Background(), ports.LoginRequest{Email: "x@y.z", Password: "p"})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)
}

func TestLogin_AfterPasswordChange(t *testing.T) {
	ctx := context.Background()
	svc := newUserService()

	user, err := svc.CreateUser(ctx, entities.Document{
		"username": "ada", "email": "ada@example.com", "password": "old",
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, user.ID, entities.Document{"password": "new"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "ada@example.com", Password: "old"})
	assert.ErrorIs(t, err, entities.ErrUnauthorized)

	_, err = svc.Login(ctx, ports.LoginRequest{Email: "ada@example.com", Password: "new"})
	assert.NoError(t, err)
}

func TestNoteService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewNoteService(repository.NewNoteRepository(store.NewMemoryStore()), logger.NewNop())

	note, err := svc.CreateNote(ctx, entities.Document{"userId": "u1", "title": "t", "content": "c"})
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	_, err = svc.UpdateNote(ctx, note.ID, entities.Document{"pinned": true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNote(ctx, note.ID))
	assert.ErrorIs(t, svc.DeleteNote(ctx, note.ID), entities.ErrNotFound)
}

func TestTaskService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(repository.NewTaskRepository(store.NewMemoryStore()), logger.NewNop())

	task, err := svc.CreateTask(ctx, entities.Document{"userId": "u1", "title": "file taxes", "dueDate": "2024-04-15"})
	require.NoError(t, err)

	done, err := svc.UpdateTask(ctx, task.ID, entities.Document{"completed": true})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "file taxes", done.Title)

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
