package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foodgram/internal/domain/tag"
	"foodgram/internal/domain/user"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/validator"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) List(ctx context.Context, res *Resource, query string, filters map[string]string, offset, limit int) ([]map[string]any, int64, error) {
	args := m.Called(ctx, res, query, filters, offset, limit)
	rows, _ := args.Get(0).([]map[string]any)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) Get(ctx context.Context, res *Resource, id int64) (map[string]any, error) {
	args := m.Called(ctx, res, id)
	row, _ := args.Get(0).(map[string]any)
	return row, args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, row any) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, res *Resource, id int64) error {
	args := m.Called(ctx, res, id)
	return args.Error(0)
}

type noopDeleter struct{}

func (noopDeleter) Delete(context.Context, int64, bool, int64) error { return nil }

func setupHandler(t *testing.T) (*gin.Engine, *MockStore) {
	t.Helper()
	validator.Init()
	gin.SetMode(gin.TestMode)

	store := new(MockStore)
	h := NewHandler(Resources(noopDeleter{}), store, 6, logger.Discard())
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, store
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex_ListsResourcesInOrder(t *testing.T) {
	r, _ := setupHandler(t)

	w := doJSON(r, http.MethodGet, "/api/admin/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []indexEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 8)
	assert.Equal(t, indexEntry{Name: "users", CanCreate: true}, out[0])
	assert.Equal(t, "recipes", out[4].Name)
	assert.False(t, out[4].CanCreate)
}

func TestList_PassesSearchFiltersAndPage(t *testing.T) {
	r, store := setupHandler(t)

	rows := []map[string]any{{"id": 1, "name": "Omelette", "author": "cook"}}
	store.On("List", mock.Anything, mock.MatchedBy(func(res *Resource) bool { return res.Name == "recipes" }),
		"omel", map[string]string{"tags": "breakfast"}, 6, 6).
		Return(rows, int64(7), nil)

	w := doJSON(r, http.MethodGet, "/api/admin/recipes/?q=omel&tags=breakfast&ignored=1&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count    int64            `json:"count"`
		Previous *string          `json:"previous"`
		Results  []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(7), page.Count)
	assert.NotNil(t, page.Previous)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Omelette", page.Results[0]["name"])
	store.AssertExpectations(t)
}

func TestList_UnknownResource(t *testing.T) {
	r, store := setupHandler(t)

	w := doJSON(r, http.MethodGet, "/api/admin/payments/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	store.AssertNotCalled(t, "List")
}

func TestGet_NotFound(t *testing.T) {
	r, store := setupHandler(t)
	store.On("Get", mock.Anything, mock.Anything, int64(42)).Return(nil, ErrObjectNotFound)

	w := doJSON(r, http.MethodGet, "/api/admin/tags/42/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/admin/tags/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_Tag(t *testing.T) {
	r, store := setupHandler(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("*tag.Tag")).Return(nil)

	w := doJSON(r, http.MethodPost, "/api/admin/tags/", map[string]string{
		"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := store.Calls[0].Arguments.Get(1).(*tag.Tag)
	assert.Equal(t, "breakfast", created.Slug)
}

func TestCreate_TagValidation(t *testing.T) {
	r, store := setupHandler(t)

	w := doJSON(r, http.MethodPost, "/api/admin/tags/", map[string]string{
		"name": "Breakfast", "color": "orange", "slug": "bad slug",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Contains(t, fields, "color")
	assert.Contains(t, fields, "slug")
	store.AssertNotCalled(t, "Create")
}

func TestCreate_UserHashesPassword(t *testing.T) {
	r, store := setupHandler(t)
	store.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil)

	w := doJSON(r, http.MethodPost, "/api/admin/users/", map[string]any{
		"email": "chef@example.com", "username": "chef", "first_name": "Ann",
		"last_name": "Lee", "password": "s3cret-pass", "is_staff": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "s3cret-pass")

	created := store.Calls[0].Arguments.Get(1).(*user.User)
	assert.True(t, created.IsStaff)
	assert.NoError(t, user.CheckPassword("s3cret-pass", created.PasswordHash))
}

func TestCreate_Duplicate(t *testing.T) {
	r, store := setupHandler(t)
	store.On("Create", mock.Anything, mock.Anything).Return(ErrAlreadyExists)

	w := doJSON(r, http.MethodPost, "/api/admin/ingredients/", map[string]string{
		"name": "Salt", "measurement_unit": "g",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), validator.NonFieldErrors)
}

func TestCreate_NotAllowed(t *testing.T) {
	r, store := setupHandler(t)

	w := doJSON(r, http.MethodPost, "/api/admin/favorites/", map[string]int{"user": 1, "recipe": 1})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	store.AssertNotCalled(t, "Create")
}

func TestDelete(t *testing.T) {
	r, store := setupHandler(t)
	store.On("Delete", mock.Anything, mock.Anything, int64(3)).Return(nil).Once()
	store.On("Delete", mock.Anything, mock.Anything, int64(4)).Return(ErrReferenced).Once()
	store.On("Delete", mock.Anything, mock.Anything, int64(5)).Return(errors.New("db down")).Once()

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/api/admin/ingredients/3/", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/api/admin/ingredients/4/", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, doJSON(r, http.MethodDelete, "/api/admin/ingredients/5/", nil).Code)
	store.AssertExpectations(t)
}
