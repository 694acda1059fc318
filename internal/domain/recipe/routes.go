package recipe

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	// Public routes (optional auth: flags are computed for logged in users)
	if public != nil {
		public.GET("/recipes/", h.List)
		public.GET("/recipes/:id/", h.Get)
	}

	if protected != nil {
		protected.POST("/recipes/", h.Create)
		protected.PATCH("/recipes/:id/", h.Update)
		protected.PUT("/recipes/:id/", h.Update)
		protected.DELETE("/recipes/:id/", h.Delete)

		protected.GET("/recipes/download_shopping_cart/", h.DownloadShoppingCart)

		protected.POST("/recipes/:id/favorite/", h.AddFavorite)
		protected.DELETE("/recipes/:id/favorite/", h.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart/", h.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart/", h.RemoveFromCart)
	}
}
