package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/domain/user"
	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"
	"foodgram/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// Login godoc
// @Summary Obtain an auth token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string][]string
// @Router /auth/token/login/ [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, validator.FromError(err))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		response.FieldErrors(c, map[string][]string{
			validator.NonFieldErrors: {"Unable to log in with provided credentials."},
		})
		return
	}
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.JSON(c, http.StatusOK, LoginResponse{AuthToken: token})
}

// Logout godoc
// @Summary Revoke the current token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Router /auth/token/logout/ [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.Claims(c)); err != nil {
		response.Internal(c, err)
		return
	}
	response.NoContent(c)
}
