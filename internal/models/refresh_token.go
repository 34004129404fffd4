package models

import "time"

// RefreshToken is the single active refresh-token record for a user.
// Issuing a new token for the same user replaces the previous record,
// which makes the superseded token string unusable for rotation.
type RefreshToken struct {
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
