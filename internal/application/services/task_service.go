package services

import (
	"context"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// TaskService handles task operations
type TaskService struct {
	taskRepo ports.Repository[entities.Task]
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.Repository[entities.Task], logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger.WithComponent("tasks"),
	}
}

func (s *TaskService) CreateTask(ctx context.Context, fields entities.Document) (*entities.Task, error) {
	task, err := s.taskRepo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(task.UserID, "task_created", map[string]interface{}{"task_id": task.ID})
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

func (s *TaskService) UpdateTask(ctx context.Context, id string, patch entities.Document) (*entities.Task, error) {
	task, err := s.taskRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(task.UserID, "task_updated", map[string]interface{}{
		"task_id":   id,
		"completed": task.Completed,
	})
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Task deleted", "task_id", id)
	return nil
}
