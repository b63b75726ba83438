package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/auth"
)

func setupAuthTest(t *testing.T) (*gin.Engine, auth.JWTService, *model.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwtSvc := auth.NewJWTService(key)

	user := &model.User{
		Base:        model.Base{ID: uuid.New()},
		RoleID:      uuid.New(),
		Name:        "Ada Okafor",
		Email:       "ada@example.com",
		DateOfBirth: time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
		Roles:       model.Roles{model.RoleDoctor},
	}

	engine := gin.New()
	engine.GET("/whoami", NewAuthMiddleware(jwtSvc).Authenticate(), func(c *gin.Context) {
		principal := model.PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, principal)
	})
	return engine, jwtSvc, user
}

func TestAuthenticateFromCookie(t *testing.T) {
	engine, jwtSvc, user := setupAuthTest(t)

	pair, _, err := jwtSvc.GenerateTokenPair(user, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), user.Email)
}

func TestAuthenticateFromBearerHeader(t *testing.T) {
	engine, jwtSvc, user := setupAuthTest(t)

	pair, _, err := jwtSvc.GenerateTokenPair(user, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	engine, _, _ := setupAuthTest(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	engine, jwtSvc, user := setupAuthTest(t)

	pair, _, err := jwtSvc.GenerateTokenPair(user, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.RefreshToken})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwtSvc := auth.NewJWTService(key)
	mw := NewAuthMiddleware(jwtSvc)

	engine := gin.New()
	engine.GET("/admin-only", mw.Authenticate(), mw.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	doctor := &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "ada@example.com",
		Roles: model.Roles{model.RoleDoctor},
	}
	pair, _, err := jwtSvc.GenerateTokenPair(doctor, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "root@example.com",
		Roles: model.Roles{model.RoleAdmin},
	}
	adminPair, _, err := jwtSvc.GenerateTokenPair(admin, false)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
