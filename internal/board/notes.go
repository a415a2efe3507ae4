package board

import (
	"context"
	"fmt"
	"time"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
)

// NotesBoard is the notes screen state
type NotesBoard struct {
	*Board[entities.Note]
}

// NewNotesBoard creates an empty notes board for userID
func NewNotesBoard(api API[entities.Note], userID string, loc *time.Location, logger *logger.Logger) *NotesBoard {
	return &NotesBoard{Board: newBoard(api, userID, NoteSpec(loc), logger.WithComponent("notes_board"))}
}

// TogglePin flips the pinned flag of a note
func (b *NotesBoard) TogglePin(ctx context.Context, id string) (*entities.Note, error) {
	note, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	return b.Patch(ctx, id, entities.Document{"pinned": !note.Pinned})
}

// ShareText renders a note the way it is handed to other apps
func ShareText(note *entities.Note) string {
	return fmt.Sprintf("Note: %s\nContent: %s\nCreated At: %s",
		note.Title, note.Content, note.CreatedAt.Format("2006-01-02"))
}
