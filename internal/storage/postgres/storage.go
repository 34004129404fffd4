package postgres

import (
	"database/sql"
)

type Storage struct {
	db *sql.DB
	*UserRepository
	*RefreshTokenLedger
	*TaskRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		RefreshTokenLedger: NewRefreshTokenLedger(db),
		TaskRepository:     NewTaskRepository(db),
	}
}
