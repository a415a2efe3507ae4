package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartnote/core/internal/board"
	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// NewNotesCommand creates the notes command group
func NewNotesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List and edit your notes",
	}

	cmd.AddCommand(newNotesListCommand(opts))
	cmd.AddCommand(newNotesAddCommand(opts))
	cmd.AddCommand(newNotesPinCommand(opts))
	cmd.AddCommand(newNotesDeleteCommand(opts))
	cmd.AddCommand(newNotesShareCommand(opts))
	return cmd
}

// loadNotes opens the logged-in user's notes board
func loadNotes(cmd *cobra.Command, opts *RootOptions) (*clientEnv, *board.NotesBoard, error) {
	env, err := newClientEnv(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	user, err := env.session.Require()
	if err != nil {
		return nil, nil, err
	}

	b := board.NewNotesBoard(env.api.Notes, user.UserID, time.Local, env.logger)
	if err := b.Refresh(commandContext(cmd)); err != nil {
		return nil, nil, err
	}
	return env, b, nil
}

func printNotes(w io.Writer, notes []*entities.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes")
		return
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		pin := ""
		if n.Pinned {
			pin = "*"
		}
		rows = append(rows, []string{
			n.ID, pin, n.Title, n.Color + "/" + n.TextColor(), n.CreatedAt.Local().Format("2006-01-02"),
		})
	}
	table(w, "ID\tPIN\tTITLE\tCOLOR\tCREATED", rows)
}

func newNotesListCommand(opts *RootOptions) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, pinned first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadNotes(cmd, opts)
			if err != nil {
				return err
			}
			if err := filters.apply(b); err != nil {
				return err
			}
			notes := b.Visible()
			return env.emit(notes, func(w io.Writer) { printNotes(w, notes) })
		},
	}

	filters.register(cmd)
	return cmd
}

func newNotesAddCommand(opts *RootOptions) *cobra.Command {
	var title, content, color string
	var pinned bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadNotes(cmd, opts)
			if err != nil {
				return err
			}

			fields := entities.Document{"title": title, "content": content, "pinned": pinned}
			if color != "" {
				fields["color"] = color
			}
			note, err := b.Add(commandContext(cmd), fields)
			if err != nil {
				return err
			}
			return env.emit(note, func(w io.Writer) { fmt.Fprintf(w, "Created note %s\n", note.ID) })
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note body")
	cmd.Flags().StringVar(&color, "color", "", "card colour (#rrggbb)")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "pin the note")
	return cmd
}

func newNotesPinCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadNotes(cmd, opts)
			if err != nil {
				return err
			}
			note, err := b.TogglePin(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return env.emit(note, func(w io.Writer) {
				fmt.Fprintf(w, "Note %s pinned=%s\n", note.ID, strconv.FormatBool(note.Pinned))
			})
		},
	}
}

func newNotesDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadNotes(cmd, opts)
			if err != nil {
				return err
			}
			msg, err := b.Delete(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return env.emit(ports.MessageResponse{Message: msg}, func(w io.Writer) { fmt.Fprintln(w, msg) })
		},
	}
}

func newNotesShareCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id>",
		Short: "Print a note as shareable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadNotes(cmd, opts)
			if err != nil {
				return err
			}
			note, ok := b.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: note %s", entities.ErrNotFound, args[0])
			}
			fmt.Fprintln(env.out, board.ShareText(note))
			return nil
		},
	}
}
