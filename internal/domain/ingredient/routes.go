package ingredient

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/ingredients/", h.List)
	public.GET("/ingredients/:id/", h.Get)
}
