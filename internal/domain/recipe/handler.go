package recipe

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/relation"
	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

const shoppingListFilename = "shopping_list.pdf"

// Handler handles HTTP requests for recipes
type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// List godoc
// @Summary List recipes
// @Tags Recipes
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param author query int false "Author id"
// @Param tags query []string false "Tag slugs, any of" collectionFormat(multi)
// @Param is_favorited query int false "0 or 1"
// @Param is_in_shopping_cart query int false "0 or 1"
// @Router /recipes/ [get]
func (h *Handler) List(c *gin.Context) {
	f, verr := ParseFilter(c.Request.URL.Query())
	if verr != nil {
		response.FieldErrors(c, verr.Fields)
		return
	}
	p := pagination.FromQuery(c, h.pageSize)
	items, total, err := h.service.List(c.Request.Context(), middleware.UserID(c), f, p.Offset(), p.Limit)
	if err != nil {
		response.Internal(c, err)
		return
	}
	for i := range items {
		items[i].Image = response.AbsoluteURL(c, items[i].Image)
	}
	response.JSON(c, http.StatusOK, pagination.New(c, p, total, items))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.service.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	h.recipe(c, http.StatusOK, resp)
}

// Create godoc
// @Summary Publish a recipe
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param body body Request true "Recipe"
// @Success 201 {object} Response
// @Failure 400 {object} map[string][]string
// @Router /recipes/ [post]
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}
	resp, err := h.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	h.recipe(c, http.StatusCreated, resp)
}

// Update serves both PATCH and PUT; the full payload is expected, image is optional.
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}
	resp, err := h.service.Update(c.Request.Context(), middleware.UserID(c), middleware.IsStaff(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	h.recipe(c, http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.UserID(c), middleware.IsStaff(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 201 {object} user.RecipePreview
// @Failure 400 {object} map[string]string "already favorited"
// @Router /recipes/{id}/favorite/ [post]
func (h *Handler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.service.AddFavorite)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.service.RemoveFavorite)
}

func (h *Handler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.service.AddToCart)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.service.RemoveFromCart)
}

// DownloadShoppingCart godoc
// @Summary Download the aggregated shopping list
// @Tags Recipes
// @Security TokenAuth
// @Produce application/pdf
// @Router /recipes/download_shopping_cart/ [get]
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	doc, err := h.service.ShoppingListPDF(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Internal(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID int64) (*user.RecipePreview, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	short, err := add(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	short.Image = response.AbsoluteURL(c, short.Image)
	response.JSON(c, http.StatusCreated, short)
}

func (h *Handler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), middleware.UserID(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) recipe(c *gin.Context, status int, resp *Response) {
	resp.Image = response.AbsoluteURL(c, resp.Image)
	response.JSON(c, status, resp)
}

func handleError(c *gin.Context, err error) {
	var relErr *relation.Error
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.FieldErrors(c, verr.Fields)
	case errors.As(err, &relErr):
		response.Errors(c, http.StatusBadRequest, relErr.Message)
	case errors.Is(err, ErrRecipeNotFound), errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c)
	default:
		response.Internal(c, err)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.NotFound(c)
		return 0, false
	}
	return id, true
}
