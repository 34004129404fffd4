package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/storage"
	"github.com/mzhirov/tasklist/internal/util"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrWeakPassword        = errors.New("password is too short")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenPair is the result of a successful login, registration or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         models.PublicUser
}

// AuthService владеет жизненным циклом сессии: выпуск пары токенов,
// проверка access-токена, ротация refresh-токена и отзыв сессии.
// Ledger хранит ровно один активный refresh-токен на пользователя.
type AuthService struct {
	users    storage.UserRepository
	ledger   storage.RefreshTokenLedger
	tokens   *TokenService
	webhooks *WebhookService
	cfg      *util.AuthConfig
	log      *zap.SugaredLogger
}

func NewAuthService(
	users storage.UserRepository,
	ledger storage.RefreshTokenLedger,
	tokens *TokenService,
	webhooks *WebhookService,
	cfg *util.AuthConfig,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		ledger:   ledger,
		tokens:   tokens,
		webhooks: webhooks,
		cfg:      cfg,
		log:      log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	if len(password) < s.cfg.MinPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := hashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Infow("User registered", "userID", user.ID, "username", user.Username)
	return s.issueTokens(ctx, user.Public())
}

// Login намеренно не различает неизвестный username и неверный пароль,
// чтобы не давать перечислять пользователей.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !checkPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.Public())
}

// VerifyAccess проверяет access-токен без обращения к ledger: access-токены
// stateless и не отзываются по отдельности.
func (s *AuthService) VerifyAccess(token string) (*Claims, error) {
	return s.tokens.VerifyToken(token)
}

// Refresh ротирует refresh-токен. Порядок шагов фиксирован:
// сначала поиск в ledger (отклоняет replay вытесненного токена), потом
// проверка подписи и срока. Токен, который лежит в ledger, но не проходит
// проверку, гасит всю сессию пользователя, а не игнорируется молча.
func (s *AuthService) Refresh(ctx context.Context, presentedToken string) (*TokenPair, error) {
	record, err := s.ledger.FindRefreshToken(ctx, presentedToken)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	claims, err := s.tokens.VerifyToken(presentedToken)
	if err != nil {
		s.revokeSession(ctx, record.UserID)
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokens(ctx, models.PublicUser{ID: claims.UserID, Username: claims.Username})
}

func (s *AuthService) issueTokens(ctx context.Context, user models.PublicUser) (*TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.tokens.IssueAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	// Вытесняет предыдущую сессию: одна активная сессия на пользователя.
	if err := s.ledger.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) revokeSession(ctx context.Context, userID int64) {
	if err := s.ledger.DeleteUserRefreshTokens(ctx, userID); err != nil {
		s.log.Errorw("Failed to revoke session", "userID", userID, "error", err)
		return
	}

	// Claims провалившегося токена недоступны, username берем из стора.
	var username string
	if user, err := s.users.GetUserByID(ctx, userID); err == nil {
		username = user.Username
	}

	s.log.Infow("Session revoked after failed refresh verification", "userID", userID)
	s.webhooks.NotifySessionRevoked(userID, username, "refresh token failed verification")
}
