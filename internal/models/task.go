package models

import "time"

type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"-"`
}

// TaskUpdate carries a partial update; nil fields keep their current value.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}
