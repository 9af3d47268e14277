package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"

	"filesmanager/internal/domain"
	"filesmanager/internal/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageSize is the fixed window for child listings.
const PageSize = 20

type CreateInput struct {
	Name     string
	Type     domain.FileType
	Parent   domain.ParentRef
	IsPublic bool
	Data     string // base64-encoded content; empty for folders
}

// Service enforces the hierarchy invariants: every non-root parent must be
// an existing folder, non-folder nodes carry content, and reads never
// disclose the existence of nodes the requester cannot see.
type Service struct {
	files   FileRepositoryInterface
	content ContentStore
	jobs    queue.Enqueuer
}

func NewService(files FileRepositoryInterface, content ContentStore, jobs queue.Enqueuer) *Service {
	return &Service{files: files, content: content, jobs: jobs}
}

// Create validates fail-fast, in a fixed order: name, type, data, parent
// existence, parent kind. Nothing is written until all checks pass.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*domain.FileNode, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if in.Type != domain.TypeFolder && in.Data == "" {
		return nil, ErrMissingData
	}

	if parentID, ok := in.Parent.FolderID(); ok {
		parent, err := s.files.GetByID(ctx, parentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("lookup parent: %w", err)
		}
		if parent.Type != domain.TypeFolder {
			return nil, ErrParentNotFolder
		}
	}

	node := &domain.FileNode{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		Parent:   in.Parent,
	}

	if in.Type != domain.TypeFolder {
		raw, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, ErrInvalidData
		}
		name, err := s.content.Save(raw)
		if err != nil {
			return nil, fmt.Errorf("store content: %w", err)
		}
		node.LocalPath = name
	}

	if err := s.files.Create(ctx, node); err != nil {
		return nil, fmt.Errorf("persist node: %w", err)
	}

	// Fire-and-forget: the upload succeeds even when the job cannot be
	// queued; the image is then simply left without variants.
	if node.Type == domain.TypeImage {
		if err := s.jobs.Enqueue(ctx, queue.ThumbnailJob{FileID: node.ID, UserID: userID}); err != nil {
			log.Printf("thumbnail enqueue failed file_id=%s: %v", node.ID, err)
		}
	}

	return node, nil
}

// GetByID is the "my files" view: only the owner sees the node.
func (s *Service) GetByID(ctx context.Context, userID int64, id string) (*domain.FileNode, error) {
	n, err := s.files.GetByIDAndOwner(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup file: %w", err)
	}
	return n, nil
}

// List returns the page-th window of 20 children. Pages past the end come
// back empty, never as an error.
func (s *Service) List(ctx context.Context, userID int64, parent domain.ParentRef, page int) ([]*domain.FileNode, error) {
	if page < 0 {
		page = 0
	}
	nodes, err := s.files.ListByParent(ctx, userID, parent, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return nodes, nil
}

// SetVisibility overwrites the flag with exactly the given value, so
// repeated publishes are idempotent.
func (s *Service) SetVisibility(ctx context.Context, userID int64, id string, isPublic bool) (*domain.FileNode, error) {
	n, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.files.UpdateVisibility(ctx, id, isPublic); err != nil {
		return nil, fmt.Errorf("update visibility: %w", err)
	}
	n.IsPublic = isPublic
	return n, nil
}

// Content resolves read access for a download. requester is nil for
// anonymous callers, who may only read public nodes. A node the requester
// may not see is reported exactly like a missing one. width selects a
// thumbnail variant; widths outside the generated set serve the original.
func (s *Service) Content(ctx context.Context, requester *int64, id string, width int) (io.ReadCloser, int64, string, error) {
	n, err := s.files.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, "", ErrNotFound
	}
	if err != nil {
		return nil, 0, "", fmt.Errorf("lookup file: %w", err)
	}

	if !n.IsPublic && (requester == nil || *requester != n.UserID) {
		return nil, 0, "", ErrNotFound
	}
	if n.Type == domain.TypeFolder {
		return nil, 0, "", ErrFolderNoContent
	}
	if n.LocalPath == "" {
		return nil, 0, "", ErrNotFound
	}

	var (
		rc   io.ReadCloser
		size int64
	)
	if isVariantWidth(width) {
		rc, size, err = s.content.OpenVariant(n.LocalPath, width)
	} else {
		rc, size, err = s.content.Open(n.LocalPath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", fmt.Errorf("open content: %w", err)
	}

	return rc, size, contentTypeFor(n.Name), nil
}

func isVariantWidth(width int) bool {
	return width == 100 || width == 250 || width == 500
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
