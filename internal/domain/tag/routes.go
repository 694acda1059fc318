package tag

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/tags/", h.List)
	public.GET("/tags/:id/", h.Get)
}
