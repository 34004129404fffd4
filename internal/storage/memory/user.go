package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	byName map[string]models.User
	nextID int64
}

func NewUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byName: make(map[string]models.User),
		nextID: 1,
	}
}

func (m *InMemoryUserRepository) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[username]; ok {
		return nil, storage.ErrUsernameTaken
	}

	user := models.User{
		ID:           m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.nextID++
	m.byName[username] = user

	return &user, nil
}

func (m *InMemoryUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byName[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

func (m *InMemoryUserRepository) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.byName {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}
