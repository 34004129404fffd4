package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

type InMemoryTaskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

func NewTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		tasks:  make(map[int64]models.Task),
		nextID: 1,
	}
}

func (m *InMemoryTaskRepository) CreateTask(_ context.Context, userID int64, title string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.Task{
		ID:        m.nextID,
		Title:     title,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.tasks[task.ID] = task

	return &task, nil
}

func (m *InMemoryTaskRepository) GetTasksByUser(_ context.Context, userID int64) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]models.Task, 0)
	for _, task := range m.tasks {
		if task.UserID == userID {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID > tasks[j].ID })

	return tasks, nil
}

func (m *InMemoryTaskRepository) UpdateTask(_ context.Context, id, userID int64, upd models.TaskUpdate) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, storage.ErrTaskNotFound
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}
	m.tasks[id] = task

	return &task, nil
}

func (m *InMemoryTaskRepository) DeleteTask(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return storage.ErrTaskNotFound
	}
	delete(m.tasks, id)

	return nil
}
