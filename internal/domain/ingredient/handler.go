package ingredient

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary List ingredients
// @Description Not paginated. ?name= matches prefixes first, then substrings.
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name search"
// @Success 200 {array} Ingredient
// @Router /ingredients/ [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Internal(c, err)
		return
	}
	if items == nil {
		items = []Ingredient{}
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}
	ing, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrIngredientNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ing)
}
