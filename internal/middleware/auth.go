package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
)

const (
	ctxUserID  = "user_id"
	ctxIsStaff = "is_staff"
	ctxClaims  = "token_claims"
)

// RevocationChecker reports whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Authenticator resolves the Authorization header into a user id.
type Authenticator struct {
	jwt     *jwt.Service
	revoked RevocationChecker
	log     logrus.FieldLogger
}

func NewAuthenticator(jwtService *jwt.Service, revoked RevocationChecker, log logrus.FieldLogger) *Authenticator {
	return &Authenticator{jwt: jwtService, revoked: revoked, log: log}
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c)
			return
		}
		if !a.authenticate(c, raw) {
			return
		}
		c.Next()
	}
}

// Optional lets anonymous requests through but still rejects a bad token.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}
		if !a.authenticate(c, raw) {
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, raw string) bool {
	claims, err := a.jwt.ValidateToken(raw)
	if err != nil {
		response.Detail(c, http.StatusUnauthorized, "Invalid token.")
		return false
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			a.log.WithError(err).WithField("jti", claims.ID).Error("revocation lookup failed")
			response.Internal(c, err)
			return false
		}
		if revoked {
			response.Detail(c, http.StatusUnauthorized, "Invalid token.")
			return false
		}
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxIsStaff, claims.IsStaff)
	c.Set(ctxClaims, claims)
	return true
}

// tokenFromHeader accepts both "Token <t>" and "Bearer <t>".
func tokenFromHeader(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	scheme := strings.ToLower(parts[0])
	if scheme != "token" && scheme != "bearer" {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// UserID returns the authenticated user id, 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func IsStaff(c *gin.Context) bool {
	return c.GetBool(ctxIsStaff)
}

func Claims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}
