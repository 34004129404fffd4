package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage/memory"
)

func newTestTaskService() *TaskService {
	return NewTaskService(memory.NewTaskRepository(), zap.NewNop().Sugar())
}

func TestTaskService_CreateAndList(t *testing.T) {
	s := newTestTaskService()
	ctx := context.Background()

	first, err := s.Create(ctx, 1, "  buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", first.Title)
	assert.False(t, first.Completed)

	second, err := s.Create(ctx, 1, "walk the dog")
	require.NoError(t, err)

	_, err = s.Create(ctx, 2, "someone else's task")
	require.NoError(t, err)

	tasks, err := s.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	// Newest first.
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestTaskService_CreateRejectsBlankTitle(t *testing.T) {
	s := newTestTaskService()

	_, err := s.Create(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrTaskTitleRequired)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	s := newTestTaskService()
	ctx := context.Background()

	task, err := s.Create(ctx, 1, "buy milk")
	require.NoError(t, err)

	done := true
	updated, err := s.Update(ctx, task.ID, 1, models.UpdateTaskRequest{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy milk", updated.Title)

	title := "buy oat milk"
	updated, err = s.Update(ctx, task.ID, 1, models.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title)
	assert.True(t, updated.Completed)
}

func TestTaskService_OwnershipEnforced(t *testing.T) {
	s := newTestTaskService()
	ctx := context.Background()

	task, err := s.Create(ctx, 1, "buy milk")
	require.NoError(t, err)

	done := true
	_, err = s.Update(ctx, task.ID, 2, models.UpdateTaskRequest{Completed: &done})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = s.Delete(ctx, task.ID, 2)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, s.Delete(ctx, task.ID, 1))
	err = s.Delete(ctx, task.ID, 1)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
