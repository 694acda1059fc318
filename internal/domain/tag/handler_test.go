package tag

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/validator"
)

func setupTagRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.Connect(fmt.Sprintf("file:tag_%s?mode=memory&cache=shared", t.Name()), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	require.NoError(t, db.Create(&Tag{Name: "Обед", Color: "#49B64E", Slug: "lunch"}).Error)
	require.NoError(t, db.Create(&Tag{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"}).Error)

	router := gin.New()
	NewHandler(NewRepository(db)).RegisterRoutes(router.Group("/api"))
	return router
}

func TestList_SortedByName(t *testing.T) {
	router := setupTagRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":2,"name":"Завтрак","color":"#E26C2D","slug":"breakfast"},
		{"id":1,"name":"Обед","color":"#49B64E","slug":"lunch"}
	]`, w.Body.String())
}

func TestGet(t *testing.T) {
	router := setupTagRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/1/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"lunch"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags/7/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagValidation(t *testing.T) {
	errs := validator.Struct(&Tag{Name: "x", Color: "#12345", Slug: "bad slug"})
	assert.Contains(t, errs, "color")
	assert.Contains(t, errs, "slug")
	assert.NotContains(t, errs, "name")

	assert.Nil(t, validator.Struct(&Tag{Name: "x", Color: "#aaBB00", Slug: "ok-slug_1"}))
}
