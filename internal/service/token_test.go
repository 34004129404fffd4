package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzhirov/tasklist/internal/models"
	"github.com/mzhirov/tasklist/internal/util"
)

func newTestTokenService(secret string) *TokenService {
	return NewTokenService(&util.TokenConfig{
		JwtSecretKey: []byte(secret),
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   7 * 24 * time.Hour,
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	ts := newTestTokenService("test-secret")
	user := models.PublicUser{ID: 42, Username: "alice"}
	now := time.Now().UTC()

	token, err := ts.IssueAccessToken(user, now)
	require.NoError(t, err)

	claims, err := ts.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, now.Add(15*time.Minute), claims.ExpiresAt, time.Second)
}

func TestTokenService_RefreshTokenLivesLonger(t *testing.T) {
	ts := newTestTokenService("test-secret")
	user := models.PublicUser{ID: 1, Username: "bob"}
	now := time.Now().UTC()

	token, err := ts.IssueRefreshToken(user, now)
	require.NoError(t, err)

	claims, err := ts.VerifyToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), claims.ExpiresAt, time.Second)
}

func TestTokenService_Expired(t *testing.T) {
	ts := newTestTokenService("test-secret")
	user := models.PublicUser{ID: 1, Username: "bob"}

	token, err := ts.IssueAccessToken(user, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ts.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	ts := newTestTokenService("test-secret")

	token, err := ts.IssueAccessToken(models.PublicUser{ID: 1, Username: "bob"}, time.Now().UTC())
	require.NoError(t, err)

	last := token[len(token)-1]
	flipped := byte('A')
	if last == flipped {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = ts.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_WrongSecret(t *testing.T) {
	other := newTestTokenService("another-secret")
	token, err := other.IssueAccessToken(models.PublicUser{ID: 1, Username: "bob"}, time.Now().UTC())
	require.NoError(t, err)

	ts := newTestTokenService("test-secret")
	_, err = ts.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	ts := newTestTokenService("test-secret")

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := ts.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}

func TestTokenService_RejectsForeignSigningMethod(t *testing.T) {
	ts := newTestTokenService("test-secret")

	// Same secret, but HS256 instead of the pinned method.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwtClaims{
		UserID:   1,
		Username: "bob",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_MissingIdentityClaims(t *testing.T) {
	ts := newTestTokenService("test-secret")

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := anonymous.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
