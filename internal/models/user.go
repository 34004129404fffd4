package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// PublicUser is the identity shape that leaves the service boundary.
// The password hash never does.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
