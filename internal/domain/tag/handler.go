package tag

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

func (h *Handler) List(c *gin.Context) {
	tags, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	if tags == nil {
		tags = []Tag{}
	}
	response.JSON(c, http.StatusOK, tags)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c)
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrTagNotFound) {
		response.NotFound(c)
		return
	}
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.JSON(c, http.StatusOK, t)
}
