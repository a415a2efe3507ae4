package board

import (
	"context"
	"time"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
)

// TasksBoard is the tasks screen state
type TasksBoard struct {
	*Board[entities.Task]
}

// NewTasksBoard creates an empty tasks board for userID
func NewTasksBoard(api API[entities.Task], userID string, loc *time.Location, logger *logger.Logger) *TasksBoard {
	return &TasksBoard{Board: newBoard(api, userID, TaskSpec(loc), logger.WithComponent("tasks_board"))}
}

// ToggleComplete flips the completed flag of a task
func (b *TasksBoard) ToggleComplete(ctx context.Context, id string) (*entities.Task, error) {
	task, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	return b.Patch(ctx, id, entities.Document{"completed": !task.Completed})
}

// Overdue returns the visible tasks that are past due and not completed
func (b *TasksBoard) Overdue(now time.Time) []*entities.Task {
	var out []*entities.Task
	for _, task := range b.Visible() {
		if task.IsOverdue(now) {
			out = append(out, task)
		}
	}
	return out
}
