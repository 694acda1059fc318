package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const notFoundMessage = "Not found."

// JSON writes a bare resource body.
func JSON(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// Errors writes a domain rule violation: {"errors": "<message>"}.
func Errors(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"errors": message})
}

// FieldErrors writes field scoped validation messages with 400.
func FieldErrors(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, fields)
}

func Detail(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"detail": message})
}

func NotFound(c *gin.Context) {
	Detail(c, http.StatusNotFound, notFoundMessage)
}

func Unauthorized(c *gin.Context) {
	Detail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
}

func Forbidden(c *gin.Context) {
	Detail(c, http.StatusForbidden, "You do not have permission to perform this action.")
}

// Internal records err on the context for the error logger and hides details from the client.
func Internal(c *gin.Context, err error) {
	_ = c.Error(err)
	Detail(c, http.StatusInternalServerError, "Internal server error.")
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// AbsoluteURL turns a site relative path such as /media/x.png into a full URL
// for the current request. Absolute URLs and nil pass through.
func AbsoluteURL(c *gin.Context, u *string) *string {
	if u == nil || *u == "" || !strings.HasPrefix(*u, "/") {
		return u
	}
	out := Scheme(c) + "://" + c.Request.Host + *u
	return &out
}

// Scheme honours X-Forwarded-Proto from a reverse proxy.
func Scheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
