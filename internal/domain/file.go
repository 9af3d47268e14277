package domain

import "time"

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// ParentRef identifies where a node hangs in the hierarchy. The zero value
// is the root. Kept as a tagged value instead of an overloaded "0" sentinel
// so a folder id can never be confused with "no parent".
type ParentRef struct {
	folderID string
}

func RootParent() ParentRef { return ParentRef{} }

func FolderParent(id string) ParentRef { return ParentRef{folderID: id} }

func (p ParentRef) IsRoot() bool { return p.folderID == "" }

// FolderID returns the parent folder id; ok is false at the root.
func (p ParentRef) FolderID() (id string, ok bool) {
	return p.folderID, !p.IsRoot()
}

// String renders the wire representation. The root is "0" on the wire.
func (p ParentRef) String() string {
	if p.IsRoot() {
		return "0"
	}
	return p.folderID
}

// ParseParentRef maps a wire value to a ParentRef. "" and "0" both mean root.
func ParseParentRef(s string) ParentRef {
	if s == "" || s == "0" {
		return RootParent()
	}
	return FolderParent(s)
}

// FileNode is the metadata record for a folder, file or image. Name, type,
// owner, parent and content reference are fixed at creation; only IsPublic
// is mutable afterwards.
type FileNode struct {
	ID        string
	UserID    int64
	Name      string
	Type      FileType
	IsPublic  bool
	Parent    ParentRef
	LocalPath string // opaque stored object name; empty for folders
	CreatedAt time.Time
}
