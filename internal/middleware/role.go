package middleware

import (
	"github.com/gin-gonic/gin"

	"foodgram/internal/pkg/response"
)

// RequireStaff must run after Authenticator.Required.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == 0 {
			response.Unauthorized(c)
			return
		}
		if !IsStaff(c) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}
