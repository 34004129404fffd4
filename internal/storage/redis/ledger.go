package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
)

// RefreshTokenLedger хранит один refresh-токен на пользователя:
// прямой ключ token -> userID для поиска при ротации и слот
// user -> token, через который старый токен вытесняется.
//
// Замена и удаление выполняются Lua-скриптами: слот и прямой ключ
// меняются в один шаг, конкурентные Save для одного пользователя
// не оставляют второй живой токен.
type RefreshTokenLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRefreshTokenLedger(client *redis.Client, ttl time.Duration) *RefreshTokenLedger {
	return &RefreshTokenLedger{client: client, ttl: ttl}
}

const tokenKeyPrefix = "refresh:token:"

func userKey(userID int64) string {
	return fmt.Sprintf("refresh:user:%d", userID)
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}

// KEYS[1] = user slot, KEYS[2] = new token key
// ARGV[1] = token, ARGV[2] = userID, ARGV[3] = ttl millis
var saveRefreshTokenScript = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old and old ~= ARGV[1] then
	redis.call('DEL', '` + tokenKeyPrefix + `' .. old)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// KEYS[1] = user slot
var deleteUserTokensScript = redis.NewScript(`
local token = redis.call('GET', KEYS[1])
if token then
	redis.call('DEL', '` + tokenKeyPrefix + `' .. token)
end
redis.call('DEL', KEYS[1])
return 1
`)

func (l *RefreshTokenLedger) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	keys := []string{userKey(userID), tokenKey(token)}
	args := []interface{}{token, strconv.FormatInt(userID, 10), l.ttl.Milliseconds()}
	if err := saveRefreshTokenScript.Run(ctx, l.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (l *RefreshTokenLedger) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	val, err := l.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, storage.ErrRefreshTokenNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored user id: %w", err)
	}

	return &models.RefreshToken{UserID: userID, Token: token}, nil
}

func (l *RefreshTokenLedger) DeleteUserRefreshTokens(ctx context.Context, userID int64) error {
	if err := deleteUserTokensScript.Run(ctx, l.client, []string{userKey(userID)}).Err(); err != nil {
		return fmt.Errorf("delete user refresh tokens: %w", err)
	}
	return nil
}
