package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

// Handler отдаёт staff-пользователям таблицы из Registry.
type Handler struct {
	registry *Registry
	store    Store
	pageSize int
	log      logrus.FieldLogger
}

func NewHandler(registry *Registry, store Store, pageSize int, log logrus.FieldLogger) *Handler {
	return &Handler{registry: registry, store: store, pageSize: pageSize, log: log}
}

type indexEntry struct {
	Name      string `json:"name"`
	CanCreate bool   `json:"can_create"`
}

// Index godoc
// @Summary List admin resources
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Router /admin/ [get]
func (h *Handler) Index(c *gin.Context) {
	names := h.registry.Names()
	out := make([]indexEntry, 0, len(names))
	for _, name := range names {
		res, _ := h.registry.Get(name)
		out = append(out, indexEntry{Name: name, CanCreate: res.NewForm != nil})
	}
	response.JSON(c, http.StatusOK, out)
}

// List godoc
// @Summary List rows of an admin resource
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param resource path string true "Resource name"
// @Param q query string false "Search"
// @Router /admin/{resource}/ [get]
func (h *Handler) List(c *gin.Context) {
	res, ok := h.resource(c)
	if !ok {
		return
	}
	filters := make(map[string]string, len(res.ListFilter))
	for _, f := range res.ListFilter {
		if v := c.Query(f.Param); v != "" {
			filters[f.Param] = v
		}
	}

	p := pagination.FromQuery(c, h.pageSize)
	rows, total, err := h.store.List(c.Request.Context(), res, c.Query("q"), filters, p.Offset(), p.Limit)
	if err != nil {
		response.Internal(c, err)
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	response.JSON(c, http.StatusOK, pagination.New(c, p, total, rows))
}

func (h *Handler) Get(c *gin.Context) {
	res, ok := h.resource(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	row, err := h.store.Get(c.Request.Context(), res, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, row)
}

// Create godoc
// @Summary Create a row (users, ingredients, tags)
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Router /admin/{resource}/ [post]
func (h *Handler) Create(c *gin.Context) {
	res, ok := h.resource(c)
	if !ok {
		return
	}
	if res.NewForm == nil {
		response.Detail(c, http.StatusMethodNotAllowed, `Method "POST" not allowed.`)
		return
	}

	form := res.NewForm()
	if err := c.ShouldBindJSON(form); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}
	row, err := form.Build()
	if err != nil {
		response.Internal(c, err)
		return
	}
	if err := h.store.Create(c.Request.Context(), row); err != nil {
		h.handleError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"resource": res.Name,
		"staff_id": middleware.UserID(c),
	}).Info("admin object created")
	response.JSON(c, http.StatusCreated, row)
}

func (h *Handler) Delete(c *gin.Context) {
	res, ok := h.resource(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), res, id); err != nil {
		h.handleError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"resource":  res.Name,
		"object_id": id,
		"staff_id":  middleware.UserID(c),
	}).Info("admin object deleted")
	response.NoContent(c)
}

func (h *Handler) resource(c *gin.Context) (*Resource, bool) {
	res, ok := h.registry.Get(c.Param("resource"))
	if !ok {
		response.NotFound(c)
		return nil, false
	}
	return res, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(c)
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrObjectNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrAlreadyExists):
		response.FieldErrors(c, map[string][]string{
			validator.NonFieldErrors: {"An object with these values already exists."},
		})
	case errors.Is(err, ErrReferenced):
		response.Errors(c, http.StatusBadRequest, "The object is referenced by other rows and cannot be deleted.")
	default:
		response.Internal(c, err)
	}
}
