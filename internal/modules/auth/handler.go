package auth

import (
	"errors"
	"net/http"

	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/users", h.Register)
	r.GET("/connect", h.Connect)
	r.GET("/disconnect", h.Disconnect)
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/users/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	u, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingEmail):
			response.Error(c, http.StatusBadRequest, "MISSING_EMAIL", "Missing email")
		case errors.Is(err, ErrMissingPassword):
			response.Error(c, http.StatusBadRequest, "MISSING_PASSWORD", "Missing password")
		case errors.Is(err, ErrEmailExists):
			response.Error(c, http.StatusBadRequest, "ALREADY_EXIST", "Already exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, UserResponse{ID: u.ID, Email: u.Email})
}

// Connect exchanges a Basic credentials header for a session token.
func (h *Handler) Connect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	token, err := h.service.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

func (h *Handler) Disconnect(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), c.GetHeader("X-Token"))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.UserByID(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		}
		return
	}

	response.Success(c, http.StatusOK, UserResponse{ID: u.ID, Email: u.Email})
}
