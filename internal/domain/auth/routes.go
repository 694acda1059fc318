package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	public.POST("/auth/token/login/", h.Login)
	protected.POST("/auth/token/logout/", h.Logout)
}
