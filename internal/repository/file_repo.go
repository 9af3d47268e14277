package repository

import (
	"context"
	"time"

	"filesmanager/internal/domain"

	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

type fileModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	Name      string    `gorm:"column:name"`
	Type      string    `gorm:"column:type"`
	IsPublic  bool      `gorm:"column:is_public"`
	ParentID  *string   `gorm:"column:parent_id;index"`
	LocalPath string    `gorm:"column:local_path"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (fileModel) TableName() string { return "files" }

// Migrate creates the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &fileModel{})
}

func toDomainFile(m fileModel) *domain.FileNode {
	parent := domain.RootParent()
	if m.ParentID != nil {
		parent = domain.FolderParent(*m.ParentID)
	}
	return &domain.FileNode{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Type:      domain.FileType(m.Type),
		IsPublic:  m.IsPublic,
		Parent:    parent,
		LocalPath: m.LocalPath,
		CreatedAt: m.CreatedAt,
	}
}

func toFileModel(n *domain.FileNode) fileModel {
	var parentID *string
	if id, ok := n.Parent.FolderID(); ok {
		v := id
		parentID = &v
	}
	return fileModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Name:      n.Name,
		Type:      string(n.Type),
		IsPublic:  n.IsPublic,
		ParentID:  parentID,
		LocalPath: n.LocalPath,
		CreatedAt: n.CreatedAt,
	}
}

func (r *FileRepository) Create(ctx context.Context, n *domain.FileNode) error {
	m := toFileModel(n)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*n = *toDomainFile(m)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*domain.FileNode, error) {
	var m fileModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFile(m), nil
}

func (r *FileRepository) GetByIDAndOwner(ctx context.Context, id string, userID int64) (*domain.FileNode, error) {
	var m fileModel
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainFile(m), nil
}

// ListByParent returns the owner's children of the given parent in insertion
// order. Offsets past the end yield an empty slice.
func (r *FileRepository) ListByParent(ctx context.Context, userID int64, parent domain.ParentRef, limit, offset int) ([]*domain.FileNode, error) {
	q := r.db.WithContext(ctx).Model(&fileModel{}).Where("user_id = ?", userID)
	if id, ok := parent.FolderID(); ok {
		q = q.Where("parent_id = ?", id)
	} else {
		q = q.Where("parent_id IS NULL")
	}

	var models []fileModel
	tx := q.Order("created_at ASC, id ASC").Limit(limit).Offset(offset).Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	nodes := make([]*domain.FileNode, 0, len(models))
	for _, m := range models {
		nodes = append(nodes, toDomainFile(m))
	}
	return nodes, nil
}

// UpdateVisibility overwrites the single mutable field of a node.
func (r *FileRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	tx := r.db.WithContext(ctx).Model(&fileModel{}).Where("id = ?", id).Update("is_public", isPublic)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&fileModel{}).Count(&count)
	return count, tx.Error
}
