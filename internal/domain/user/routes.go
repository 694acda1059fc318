package user

import "github.com/gin-gonic/gin"

// RegisterRoutes wires /users/. public uses optional auth, protected requires a token.
func RegisterRoutes(public, protected *gin.RouterGroup, h *Handler) {
	public.GET("/users/", h.List)
	public.POST("/users/", h.Signup)
	public.GET("/users/:id/", h.Get)

	protected.GET("/users/me/", h.Me)
	protected.POST("/users/set_password/", h.SetPassword)
	protected.GET("/users/subscriptions/", h.Subscriptions)
	protected.POST("/users/:id/subscribe/", h.Subscribe)
	protected.DELETE("/users/:id/subscribe/", h.Unsubscribe)
}
