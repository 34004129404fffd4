package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

type RefreshTokenLedger struct {
	db storage.DBTX
}

func NewRefreshTokenLedger(db storage.DBTX) *RefreshTokenLedger {
	return &RefreshTokenLedger{db: db}
}

// SaveRefreshToken заменяет текущий refresh-токен пользователя одним upsert.
// user_id является PRIMARY KEY, поэтому конкурентные вызовы для одного
// пользователя сериализуются на строке.
func (r *RefreshTokenLedger) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	query := `INSERT INTO refresh_tokens (user_id, token, created_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created_at = now()`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenLedger) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	query := `SELECT user_id, token, created_at FROM refresh_tokens WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).Scan(&rt.UserID, &rt.Token, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *RefreshTokenLedger) DeleteUserRefreshTokens(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}
	return nil
}
