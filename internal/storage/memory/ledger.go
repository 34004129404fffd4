package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

// InMemoryRefreshTokenLedger держит оба направления под одним мьютексом,
// поэтому замена токена пользователя атомарна.
type InMemoryRefreshTokenLedger struct {
	mu      sync.RWMutex
	byUser  map[int64]string
	byToken map[string]models.RefreshToken
}

func NewRefreshTokenLedger() *InMemoryRefreshTokenLedger {
	return &InMemoryRefreshTokenLedger{
		byUser:  make(map[int64]string),
		byToken: make(map[string]models.RefreshToken),
	}
}

func (m *InMemoryRefreshTokenLedger) SaveRefreshToken(_ context.Context, userID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byUser[userID]; ok {
		delete(m.byToken, old)
	}
	m.byUser[userID] = token
	m.byToken[token] = models.RefreshToken{
		UserID:    userID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	return nil
}

func (m *InMemoryRefreshTokenLedger) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rt, ok := m.byToken[token]
	if !ok {
		return nil, storage.ErrRefreshTokenNotFound
	}
	return &rt, nil
}

func (m *InMemoryRefreshTokenLedger) DeleteUserRefreshTokens(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byUser[userID]; ok {
		delete(m.byToken, token)
		delete(m.byUser, userID)
	}

	return nil
}
