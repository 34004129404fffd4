package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mzhirov/tasklist/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrTaskNotFound         = errors.New("task not found")
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage interface {
	UserRepository
	RefreshTokenLedger
	TaskRepository
}

type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// RefreshTokenLedger keeps at most one active refresh token per user.
// SaveRefreshToken replaces any existing entry for the user in a single
// logical step; concurrent saves for one user must not produce a lost
// update (last writer wins).
type RefreshTokenLedger interface {
	SaveRefreshToken(ctx context.Context, userID int64, token string) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteUserRefreshTokens(ctx context.Context, userID int64) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, userID int64, title string) (*models.Task, error)
	GetTasksByUser(ctx context.Context, userID int64) ([]models.Task, error)
	UpdateTask(ctx context.Context, id, userID int64, upd models.TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id, userID int64) error
}
