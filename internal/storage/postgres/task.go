package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

type TaskRepository struct {
	db storage.DBTX
}

func NewTaskRepository(db storage.DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, userID int64, title string) (*models.Task, error) {
	var task models.Task
	query := `INSERT INTO tasks (title, user_id) VALUES ($1, $2) RETURNING id, title, completed, user_id, created_at`
	err := r.db.QueryRowContext(ctx, query, title, userID).
		Scan(&task.ID, &task.Title, &task.Completed, &task.UserID, &task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) GetTasksByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	query := `SELECT id, title, completed, user_id, created_at FROM tasks WHERE user_id = $1 ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed, &task.UserID, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id, userID int64, upd models.TaskUpdate) (*models.Task, error) {
	var task models.Task
	query := `UPDATE tasks SET title = COALESCE($1, title), completed = COALESCE($2, completed)
		WHERE id = $3 AND user_id = $4 RETURNING id, title, completed, user_id, created_at`
	err := r.db.QueryRowContext(ctx, query, upd.Title, upd.Completed, id, userID).
		Scan(&task.ID, &task.Title, &task.Completed, &task.UserID, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}
