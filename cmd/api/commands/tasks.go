package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartnote/core/internal/board"
	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/ports"
)

// NewTasksCommand creates the tasks command group
func NewTasksCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit your tasks",
	}

	cmd.AddCommand(newTasksListCommand(opts))
	cmd.AddCommand(newTasksAddCommand(opts))
	cmd.AddCommand(newTasksCompleteCommand(opts))
	cmd.AddCommand(newTasksDeleteCommand(opts))
	return cmd
}

func loadTasks(cmd *cobra.Command, opts *RootOptions) (*clientEnv, *board.TasksBoard, error) {
	env, err := newClientEnv(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	user, err := env.session.Require()
	if err != nil {
		return nil, nil, err
	}

	b := board.NewTasksBoard(env.api.Tasks, user.UserID, time.Local, env.logger)
	if err := b.Refresh(commandContext(cmd)); err != nil {
		return nil, nil, err
	}
	return env, b, nil
}

func printTasks(w io.Writer, tasks []*entities.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		due := "-"
		if !t.DueDate.IsZero() {
			due = t.DueDate.Local().Format("2006-01-02 15:04")
		}
		state := "open"
		switch {
		case t.Completed:
			state = "done"
		case t.IsOverdue(now):
			state = "overdue"
		}
		rows = append(rows, []string{t.ID, state, t.Title, due})
	}
	table(w, "ID\tSTATE\tTITLE\tDUE", rows)
}

func newTasksListCommand(opts *RootOptions) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadTasks(cmd, opts)
			if err != nil {
				return err
			}
			if err := filters.apply(b); err != nil {
				return err
			}
			tasks := b.Visible()
			return env.emit(tasks, func(w io.Writer) { printTasks(w, tasks, time.Now()) })
		},
	}

	filters.register(cmd)
	return cmd
}

func newTasksAddCommand(opts *RootOptions) *cobra.Command {
	var title, description, due, color string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadTasks(cmd, opts)
			if err != nil {
				return err
			}

			fields := entities.Document{"title": title, "description": description}
			if due != "" {
				// zoneless dates mean local time, the zone tasks list buckets in
				ts, err := entities.ParseTimestampIn(due, time.Local)
				if err != nil {
					return err
				}
				fields["dueDate"] = ts.Format(time.RFC3339)
			}
			if color != "" {
				fields["color"] = color
			}
			task, err := b.Add(commandContext(cmd), fields)
			if err != nil {
				return err
			}
			return env.emit(task, func(w io.Writer) { fmt.Fprintf(w, "Created task %s\n", task.ID) })
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC3339)")
	cmd.Flags().StringVar(&color, "color", "", "card colour (#rrggbb)")
	return cmd
}

func newTasksCompleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Toggle a task's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadTasks(cmd, opts)
			if err != nil {
				return err
			}
			task, err := b.ToggleComplete(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			return env.emit(task, func(w io.Writer) {
				fmt.Fprintf(w, "Task %s completed=%t\n", task.ID, task.Completed)
			})
		},
	}
}

func newTasksDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, b, err := loadTasks(cmd, opts)
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
