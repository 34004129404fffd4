package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleRequired = errors.New("title is required")
)

type TaskService struct {
	tasks storage.TaskRepository
	log   *zap.SugaredLogger
}

func NewTaskService(tasks storage.TaskRepository, log *zap.SugaredLogger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

func (s *TaskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.tasks.GetTasksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	task, err := s.tasks.CreateTask(ctx, userID, title)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id, userID int64, req models.UpdateTaskRequest) (*models.Task, error) {
	upd := models.TaskUpdate{Completed: req.Completed}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		upd.Title = &title
	}

	task, err := s.tasks.UpdateTask(ctx, id, userID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.tasks.DeleteTask(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
