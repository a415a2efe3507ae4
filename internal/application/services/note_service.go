package services

import (
	"context"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// NoteService handles note operations
type NoteService struct {
	noteRepo ports.Repository[entities.Note]
	logger   *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo ports.Repository[entities.Note], logger *logger.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		logger:   logger.WithComponent("notes"),
	}
}

// CreateNote validates and stores a new note
func (s *NoteService) CreateNote(ctx context.Context, fields entities.Document) (*entities.Note, error) {
	note, err := s.noteRepo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(note.UserID, "note_created", map[string]interface{}{"note_id": note.ID})
	return note, nil
}

// GetNote retrieves a note by ID
func (s *NoteService) GetNote(ctx context.Context, id string) (*entities.Note, error) {
	return s.noteRepo.GetByID(ctx, id)
}

// ListNotes returns every note owned by userID in store order
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]*entities.Note, error) {
	notes, err := s.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("Listed notes", "user_id", userID, "count", len(notes))
	return notes, nil
}

// UpdateNote merges patch into the note
func (s *NoteService) UpdateNote(ctx context.Context, id string, patch entities.Document) (*entities.Note, error) {
	note, err := s.noteRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(note.UserID, "note_updated", map[string]interface{}{"note_id": id})
	return note, nil
}

// DeleteNote permanently removes a note
func (s *NoteService) DeleteNote(ctx context.Context, id string) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Note deleted", "note_id", id)
	return nil
}
