package files

import (
	"errors"
	"net/http"
	"strconv"

	"filesmanager/internal/domain"
	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.POST("", h.Create)
		files.GET("", h.List)
		files.GET("/:id", h.GetByID)
		files.PUT("/:id/publish", h.Publish)
		files.PUT("/:id/unpublish", h.Unpublish)
	}
}

// RegisterPublicRoutes registers the download route; the group is expected
// to carry OptionalTokenAuth so anonymous requests pass through.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/files/:id/data", h.Download)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	node, err := h.service.Create(c.Request.Context(), userID, CreateInput{
		Name:     req.Name,
		Type:     domain.FileType(req.Type),
		Parent:   domain.ParseParentRef(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toNodeResponse(node))
}

func (h *Handler) GetByID(c *gin.Context) {
	node, err := h.service.GetByID(c.Request.Context(), c.GetInt64("user_id"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toNodeResponse(node))
}

func (h *Handler) List(c *gin.Context) {
	page := 0
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	nodes, err := h.service.List(
		c.Request.Context(),
		c.GetInt64("user_id"),
		domain.ParseParentRef(c.Query("parentId")),
		page,
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]NodeResponse, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, toNodeResponse(n))
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Publish(c *gin.Context)   { h.setVisibility(c, true) }
func (h *Handler) Unpublish(c *gin.Context) { h.setVisibility(c, false) }

func (h *Handler) setVisibility(c *gin.Context, isPublic bool) {
	node, err := h.service.SetVisibility(c.Request.Context(), c.GetInt64("user_id"), c.Param("id"), isPublic)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toNodeResponse(node))
}

func (h *Handler) Download(c *gin.Context) {
	var requester *int64
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(int64); ok {
			requester = &id
		}
	}

	width := 0
	if v := c.Query("size"); v != "" {
		// out-of-range values fall through to the original
		width, _ = strconv.Atoi(v)
	}

	rc, size, contentType, err := h.service.Content(c.Request.Context(), requester, c.Param("id"), width)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, size, contentType, rc, nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingName):
		response.Error(c, http.StatusBadRequest, "MISSING_NAME", "Missing name")
	case errors.Is(err, ErrInvalidType):
		response.Error(c, http.StatusBadRequest, "MISSING_TYPE", "Missing type")
	case errors.Is(err, ErrMissingData):
		response.Error(c, http.StatusBadRequest, "MISSING_DATA", "Missing data")
	case errors.Is(err, ErrInvalidData):
		response.Error(c, http.StatusBadRequest, "INVALID_DATA", "Data is not valid base64")
	case errors.Is(err, ErrParentNotFound):
		response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOUND", "Parent not found")
	case errors.Is(err, ErrParentNotFolder):
		response.Error(c, http.StatusBadRequest, "PARENT_NOT_FOLDER", "Parent is not a folder")
	case errors.Is(err, ErrFolderNoContent):
		response.Error(c, http.StatusBadRequest, "FOLDER_NO_CONTENT", "A folder doesn't have content")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
