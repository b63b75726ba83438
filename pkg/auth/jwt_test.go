package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthdesk/clinic-api/internal/model"
)

func newTestService(t *testing.T) JWTService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewJWTService(key)
}

func testUser() *model.User {
	return &model.User{
		Base:        model.Base{ID: uuid.New()},
		RoleID:      uuid.New(),
		Name:        "Jordan Reyes",
		Email:       "jordan@example.com",
		DateOfBirth: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Roles:       model.Roles{model.RolePatient},
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	pair, jti, err := svc.GenerateTokenPair(user, false)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := svc.ParseToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.Email, access.Subject)
	assert.Equal(t, user.ID, access.Profile.ID)
	assert.Equal(t, user.RoleID, access.Profile.RoleID)
	assert.Equal(t, []model.Role{model.RolePatient}, access.Roles)

	refresh, err := svc.ParseToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, jti, refresh.ID)
}

func TestParseRejectsWrongType(t *testing.T) {
	svc := newTestService(t)

	pair, _, err := svc.GenerateTokenPair(testUser(), false)
	require.NoError(t, err)

	_, err = svc.ParseToken(pair.AccessToken, TokenTypeRefresh)
	assert.Error(t, err)

	_, err = svc.ParseToken(pair.RefreshToken, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseRejectsForeignKey(t *testing.T) {
	pair, _, err := newTestService(t).GenerateTokenPair(testUser(), false)
	require.NoError(t, err)

	_, err = newTestService(t).ParseToken(pair.AccessToken, TokenTypeAccess)
	assert.Error(t, err)
}

func TestRememberMeExtendsRefresh(t *testing.T) {
	svc := newTestService(t)

	short, _, err := svc.GenerateTokenPair(testUser(), false)
	require.NoError(t, err)
	long, _, err := svc.GenerateTokenPair(testUser(), true)
	require.NoError(t, err)

	shortClaims, err := svc.ParseToken(short.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	longClaims, err := svc.ParseToken(long.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)

	assert.True(t, longClaims.ExpiresAt.After(shortClaims.ExpiresAt.Add(24*time.Hour)))
}

func TestGenerateAccessTokenFromRefreshClaims(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	pair, _, err := svc.GenerateTokenPair(user, false)
	require.NoError(t, err)
	refresh, err := svc.ParseToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)

	access, err := svc.GenerateAccessToken(refresh)
	require.NoError(t, err)

	claims, err := svc.ParseToken(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Subject)
	assert.Empty(t, claims.ID)
}
