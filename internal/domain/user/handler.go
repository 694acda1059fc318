package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/relation"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

// Handler handles HTTP requests for users and subscriptions
type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Router /users/ [get]
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c, h.pageSize)
	users, total, err := h.service.List(c.Request.Context(), middleware.UserID(c), p.Offset(), p.Limit)
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pagination.New(c, p, total, users))
}

// Signup godoc
// @Summary Register a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup data"
// @Success 201 {object} CreatedResponse
// @Router /users/ [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}
	u, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, ToCreatedResponse(u))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Detail(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	resp, err := h.service.Detail(c.Request.Context(), userID, userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// SetPassword godoc
// @Summary Change own password
// @Tags Users
// @Security TokenAuth
// @Accept json
// @Param body body SetPasswordRequest true "Passwords"
// @Success 204
// @Router /users/set_password/ [post]
func (h *Handler) SetPassword(c *gin.Context) {
	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}
	if err := h.service.SetPassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Subscribe godoc
// @Summary Subscribe to an author
// @Tags Users
// @Security TokenAuth
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Max recipes per author"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} map[string]string "already subscribed or self subscription"
// @Router /users/{id}/subscribe/ [post]
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.service.Subscribe(c.Request.Context(), middleware.UserID(c), authorID, recipesLimit(c))
	if err != nil {
		handleError(c, err)
		return
	}
	absolutePreviews(c, entry)
	response.JSON(c, http.StatusCreated, entry)
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), middleware.UserID(c), authorID); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// Subscriptions godoc
// @Summary Authors the current user follows
// @Tags Users
// @Security TokenAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Max recipes per author"
// @Router /users/subscriptions/ [get]
func (h *Handler) Subscriptions(c *gin.Context) {
	p := pagination.FromQuery(c, h.pageSize)
	entries, total, err := h.service.Subscriptions(c.Request.Context(), middleware.UserID(c), p.Offset(), p.Limit, recipesLimit(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	for i := range entries {
		absolutePreviews(c, &entries[i])
	}
	response.JSON(c, http.StatusOK, pagination.New(c, p, total, entries))
}

func handleError(c *gin.Context, err error) {
	var relErr *relation.Error
	switch {
	case errors.As(err, &relErr):
		response.Errors(c, http.StatusBadRequest, relErr.Message)
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrEmailAlreadyExists):
		response.FieldErrors(c, map[string][]string{"email": {"A user with that email already exists."}})
	case errors.Is(err, ErrUsernameAlreadyExists):
		response.FieldErrors(c, map[string][]string{"username": {"A user with that username already exists."}})
	case errors.Is(err, ErrUserAlreadyExists):
		response.FieldErrors(c, map[string][]string{validator.NonFieldErrors: {"A user with that email or username already exists."}})
	case errors.Is(err, ErrInvalidPassword):
		response.FieldErrors(c, map[string][]string{"current_password": {"Invalid password."}})
	default:
		response.Internal(c, err)
	}
}

// recipesLimit is -1 (no cap) unless the query holds a non-negative integer.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func absolutePreviews(c *gin.Context, entry *SubscriptionResponse) {
	for i := range entry.Recipes {
		entry.Recipes[i].Image = response.AbsoluteURL(c, entry.Recipes[i].Image)
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.NotFound(c)
		return 0, false
	}
	return id, true
}
