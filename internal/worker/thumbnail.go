// Package worker consumes thumbnail jobs and derives downscaled raster
// variants for uploaded images.
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"

	"filesmanager/internal/domain"
	"filesmanager/internal/queue"

	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

// Widths are generated large to small; the order is fixed so repeated runs
// behave identically.
var Widths = [3]int{500, 250, 100}

type FileRepositoryInterface interface {
	GetByIDAndOwner(ctx context.Context, id string, userID int64) (*domain.FileNode, error)
}

type ContentStore interface {
	Open(name string) (io.ReadCloser, int64, error)
	SaveVariant(name string, width int, data []byte) error
	RemoveVariant(name string, width int) error
}

type Worker struct {
	files   FileRepositoryInterface
	content ContentStore
}

func New(files FileRepositoryInterface, content ContentStore) *Worker {
	return &Worker{files: files, content: content}
}

// Run consumes jobs until the channel closes or ctx is cancelled. Several
// workers may run over the same channel; processing is safe to repeat, so
// at-least-once delivery needs no coordination. Failures are logged and
// retrying is left to the queue.
func (w *Worker) Run(ctx context.Context, jobs <-chan queue.ThumbnailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.Process(ctx, job); err != nil {
				log.Printf("thumbnail job failed file_id=%s user_id=%d: %v", job.FileID, job.UserID, err)
			}
		}
	}
}

// Process generates all variants for one job. A job for a non-image node is
// a silent no-op: the job may have raced a concurrent change or been
// mis-issued, and neither warrants an error. Variants are rendered fully in
// memory before the first write; if a write still fails, variants written
// for this job are removed so a partial set is never left behind.
func (w *Worker) Process(ctx context.Context, job queue.ThumbnailJob) error {
	if job.FileID == "" {
		return errors.New("missing fileId")
	}
	if job.UserID == 0 {
		return errors.New("missing userId")
	}

	node, err := w.files.GetByIDAndOwner(ctx, job.FileID, job.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New("file not found")
	}
	if err != nil {
		return fmt.Errorf("lookup file: %w", err)
	}
	if node.Type != domain.TypeImage {
		return nil
	}

	rc, _, err := w.content.Open(node.LocalPath)
	if err != nil {
		return fmt.Errorf("open original: %w", err)
	}
	src, format, err := image.Decode(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	variants := make(map[int][]byte, len(Widths))
	for _, width := range Widths {
		data, err := encode(scale(src, width), format)
		if err != nil {
			return fmt.Errorf("render %dpx variant: %w", width, err)
		}
		variants[width] = data
	}

	written := make([]int, 0, len(Widths))
	for _, width := range Widths {
		if err := w.content.SaveVariant(node.LocalPath, width, variants[width]); err != nil {
			for _, prev := range written {
				_ = w.content.RemoveVariant(node.LocalPath, prev)
			}
			return fmt.Errorf("write %dpx variant: %w", width, err)
		}
		written = append(written, width)
	}

	return nil
}

// scale resizes src to the target width, preserving aspect ratio.
func scale(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// encode re-encodes a variant in the source image's format.
func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
