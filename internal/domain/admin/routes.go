package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the admin site; staff must already be enforced on the group.
func (h *Handler) RegisterRoutes(staff *gin.RouterGroup) {
	admin := staff.Group("/admin")
	{
		admin.GET("/", h.Index)
		admin.GET("/:resource/", h.List)
		admin.POST("/:resource/", h.Create)
		admin.GET("/:resource/:id/", h.Get)
		admin.DELETE("/:resource/:id/", h.Delete)
	}
}
