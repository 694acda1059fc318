package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/database"
	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/validator"
)

type authEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	service *Service
}

func setupAuthTest(t *testing.T) *authEnv {
	t.Helper()
	validator.Init()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name()), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(user.Models(), Models()...)...))

	users := user.NewService(db, user.NewRepository(db), nil)
	jwtService := jwt.New("test-secret", time.Hour)
	svc := NewService(users, NewRepository(db), jwtService, logger.Discard())
	authn := middleware.NewAuthenticator(jwtService, svc, logger.Discard())

	router := gin.New()
	api := router.Group("/api")
	RegisterRoutes(api.Group(""), api.Group("", authn.Required()), NewHandler(svc))
	api.GET("/whoami/", authn.Required(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.UserID(c)})
	})

	hash, err := user.HashPassword("Qwerty123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&user.User{
		Email: "vpupkin@yandex.ru", Username: "vasya", FirstName: "V", LastName: "P", PasswordHash: hash,
	}).Error)

	return &authEnv{db: db, router: router, service: svc}
}

func (e *authEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *authEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email": "vpupkin@yandex.ru", "password": "Qwerty123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AuthToken)
	return resp.AuthToken
}

func TestLogin(t *testing.T) {
	env := setupAuthTest(t)
	token := env.login(t)

	w := env.do(http.MethodGet, "/api/whoami/", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	env := setupAuthTest(t)

	for _, body := range []map[string]string{
		{"email": "vpupkin@yandex.ru", "password": "wrong"},
		{"email": "nobody@yandex.ru", "password": "Qwerty123"},
	} {
		w := env.do(http.MethodPost, "/api/auth/token/login/", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "non_field_errors")
	}

	w := env.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password")
}

func TestLogout_RevokesToken(t *testing.T) {
	env := setupAuthTest(t)
	token := env.login(t)
	other := env.login(t)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodPost, "/api/auth/token/logout/", token, nil).Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/whoami/", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/auth/token/logout/", token, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/whoami/", other, nil).Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/auth/token/logout/", "", nil).Code)
}

func TestPurgeExpired(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	now := time.Now()

	repo := NewRepository(env.db)
	require.NoError(t, repo.Revoke(ctx, &RevokedToken{JTI: "old", UserID: 1, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Revoke(ctx, &RevokedToken{JTI: "fresh", UserID: 1, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Revoke(ctx, &RevokedToken{JTI: "fresh", UserID: 1, ExpiresAt: now.Add(time.Hour)}))

	n, err := env.service.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, err := env.service.IsRevoked(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = env.service.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
