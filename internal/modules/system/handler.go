// Package system exposes liveness and usage counters for the backing stores.
package system

import (
	"context"
	"net/http"

	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type SessionPinger interface {
	Alive() bool
}

type Handler struct {
	users    Counter
	files    Counter
	sessions SessionPinger
}

func NewHandler(users, files Counter, sessions SessionPinger) *Handler {
	return &Handler{users: users, files: files, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/status", h.Status)
	r.GET("/stats", h.Stats)
}

func (h *Handler) Status(c *gin.Context) {
	dbAlive := true
	if _, err := h.users.Count(c.Request.Context()); err != nil {
		dbAlive = false
	}
	response.Success(c, http.StatusOK, gin.H{
		"db":       dbAlive,
		"sessions": h.sessions.Alive(),
	})
}

func (h *Handler) Stats(c *gin.Context) {
	users, err := h.users.Count(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count users")
		return
	}
	files, err := h.files.Count(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count files")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "files": files})
}
