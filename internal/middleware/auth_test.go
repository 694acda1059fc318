package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

type failingRevocation struct{}

func (failingRevocation) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("db down")
}

func newAuthRouter(a *Authenticator, mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  UserID(c),
			"is_staff": IsStaff(c),
		})
	})
	return router
}

func doGet(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequired_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, _, err := jwtService.GenerateToken(42, true)
	require.NoError(t, err)

	a := NewAuthenticator(jwtService, revokedSet{}, logger.Discard())
	router := newAuthRouter(a, a.Required())

	for _, scheme := range []string{"Token ", "Bearer "} {
		w := doGet(router, scheme+token)
		assert.Equal(t, http.StatusOK, w.Code, scheme)
		assert.JSONEq(t, `{"user_id":42,"is_staff":true}`, w.Body.String())
	}
}

func TestRequired_InvalidToken(t *testing.T) {
	a := NewAuthenticator(jwt.New("secret", time.Hour), nil, logger.Discard())

	router := gin.New()
	router.Use(a.Required())
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := doGet(router, "Token invalid-jwt-here")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token."}`, w.Body.String())
}

func TestRequired_NoToken(t *testing.T) {
	a := NewAuthenticator(jwt.New("secret", time.Hour), nil, logger.Discard())
	router := newAuthRouter(a, a.Required())

	w := doGet(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "credentials were not provided")

	w = doGet(router, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequired_RevokedToken(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, claims, err := jwtService.GenerateToken(7, false)
	require.NoError(t, err)

	a := NewAuthenticator(jwtService, revokedSet{claims.ID: true}, logger.Discard())
	w := doGet(newAuthRouter(a, a.Required()), "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequired_RevocationLookupFails(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _, err := jwtService.GenerateToken(7, false)
	require.NoError(t, err)

	a := NewAuthenticator(jwtService, failingRevocation{}, logger.Discard())
	w := doGet(newAuthRouter(a, a.Required()), "Token "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptional(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _, err := jwtService.GenerateToken(5, false)
	require.NoError(t, err)

	a := NewAuthenticator(jwtService, nil, logger.Discard())
	router := newAuthRouter(a, a.Optional())

	w := doGet(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"is_staff":false}`, w.Body.String())

	w = doGet(router, "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":5,"is_staff":false}`, w.Body.String())

	w = doGet(router, "Token garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStaff(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	staff, _, _ := jwtService.GenerateToken(1, true)
	regular, _, _ := jwtService.GenerateToken(2, false)

	a := NewAuthenticator(jwtService, nil, logger.Discard())
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", a.Required(), RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doGet(router, "Token "+staff).Code)
	assert.Equal(t, http.StatusForbidden, doGet(router, "Token "+regular).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "").Code)
}

func TestTokenFromHeader(t *testing.T) {
	cases := map[string]struct {
		token string
		ok    bool
	}{
		"Token abc":   {"abc", true},
		"bearer abc":  {"abc", true},
		"Token ":      {"", false},
		"abc":         {"", false},
		"Digest abc":  {"", false},
		"  Token xyz": {"xyz", true},
	}
	for header, want := range cases {
		token, ok := tokenFromHeader(header)
		assert.Equal(t, want.ok, ok, header)
		assert.Equal(t, want.token, token, header)
	}
}
