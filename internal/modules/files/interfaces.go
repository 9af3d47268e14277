package files

import (
	"context"
	"io"

	"filesmanager/internal/domain"
)

type FileRepositoryInterface interface {
	Create(ctx context.Context, n *domain.FileNode) error
	GetByID(ctx context.Context, id string) (*domain.FileNode, error)
	GetByIDAndOwner(ctx context.Context, id string, userID int64) (*domain.FileNode, error)
	ListByParent(ctx context.Context, userID int64, parent domain.ParentRef, limit, offset int) ([]*domain.FileNode, error)
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
}

type ContentStore interface {
	Save(data []byte) (string, error)
	Open(name string) (io.ReadCloser, int64, error)
	OpenVariant(name string, width int) (io.ReadCloser, int64, error)
}
