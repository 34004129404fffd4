package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/util"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID    int64
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService подписывает и проверяет access/refresh токены одним
// process-wide секретом. Смена секрета инвалидирует все выданные токены.
type TokenService struct {
	jwtSecretKey []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewTokenService(cfg *util.TokenConfig) *TokenService {
	return &TokenService{
		jwtSecretKey: cfg.JwtSecretKey,
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
	}
}

func (ts *TokenService) AccessTTL() time.Duration  { return ts.accessTTL }
func (ts *TokenService) RefreshTTL() time.Duration { return ts.refreshTTL }

func (ts *TokenService) IssueAccessToken(user models.PublicUser, now time.Time) (string, error) {
	return ts.issue(user, now, ts.accessTTL)
}

func (ts *TokenService) IssueRefreshToken(user models.PublicUser, now time.Time) (string, error) {
	return ts.issue(user, now, ts.refreshTTL)
}

func (ts *TokenService) issue(user models.PublicUser, now time.Time, ttl time.Duration) (string, error) {
	claims := &jwtClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(ts.jwtSecretKey)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}

// VerifyToken проверяет подпись и срок действия. Любая структурная
// поломка токена нормализуется в ErrTokenInvalid.
func (ts *TokenService) VerifyToken(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(util.JWTLeeWay),
		jwt.WithExpirationRequired(),
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&jwtClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return ts.jwtSecretKey, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenInvalid
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsedToken.Claims.(*jwtClaims)
	if !ok || !parsedToken.Valid || claims.UserID == 0 || claims.Username == "" {
		return nil, ErrTokenInvalid
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &Claims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IssuedAt:  issuedAt,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
