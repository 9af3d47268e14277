package files

import (
	"time"

	"filesmanager/internal/domain"
)

type CreateRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

type NodeResponse struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsPublic  bool      `json:"isPublic"`
	ParentID  string    `json:"parentId"`
	CreatedAt time.Time `json:"created_at"`
}

func toNodeResponse(n *domain.FileNode) NodeResponse {
	return NodeResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Name:      n.Name,
		Type:      string(n.Type),
		IsPublic:  n.IsPublic,
		ParentID:  n.Parent.String(),
		CreatedAt: n.CreatedAt,
	}
}
