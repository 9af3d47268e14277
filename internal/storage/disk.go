package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Disk stores uploaded content and derived thumbnails on the local
// filesystem. Objects are addressed by generated opaque names, never by the
// user-supplied file name.
type Disk struct {
	root string
}

func NewDisk(root string) *Disk { return &Disk{root: root} }

// Save writes data under a freshly generated object name and returns the name.
func (d *Disk) Save(data []byte) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create storage root: %w", err)
	}
	name := uuid.New().String()
	if err := os.WriteFile(filepath.Join(d.root, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}
	return name, nil
}

// Open returns a streaming reader over a stored object and its size.
// The error satisfies os.IsNotExist when the object does not exist.
func (d *Disk) Open(name string) (io.ReadCloser, int64, error) {
	f, err := os.Open(filepath.Join(d.root, name))
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// VariantName derives the object name of a thumbnail variant.
func VariantName(name string, width int) string {
	return name + "_" + strconv.Itoa(width)
}

func (d *Disk) SaveVariant(name string, width int, data []byte) error {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	return os.WriteFile(filepath.Join(d.root, VariantName(name, width)), data, 0o644)
}

func (d *Disk) OpenVariant(name string, width int) (io.ReadCloser, int64, error) {
	return d.Open(VariantName(name, width))
}

func (d *Disk) RemoveVariant(name string, width int) error {
	return os.Remove(filepath.Join(d.root, VariantName(name, width)))
}
