// Package queue is the message boundary between the upload path and the
// thumbnail workers. The upload path only sees the Enqueuer interface, so a
// broker-backed client can replace the in-process queue without touching
// business logic.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ThumbnailJob asks a worker to derive resized variants for an uploaded image.
type ThumbnailJob struct {
	FileID string
	UserID int64
}

var (
	ErrFull   = errors.New("queue is full")
	ErrClosed = errors.New("queue is closed")
)

// Enqueuer is the producer side of the thumbnail pipeline. Enqueue never
// blocks; the upload path treats failures as fire-and-forget.
type Enqueuer interface {
	Enqueue(ctx context.Context, job ThumbnailJob) error
}

// Memory is an in-process queue backed by a buffered channel. Multiple
// workers may consume Jobs concurrently.
type Memory struct {
	mu     sync.Mutex
	jobs   chan ThumbnailJob
	closed bool
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 64
	}
	return &Memory{jobs: make(chan ThumbnailJob, size)}
}

func (m *Memory) Enqueue(_ context.Context, job ThumbnailJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case m.jobs <- job:
		return nil
	default:
		return ErrFull
	}
}

// Jobs exposes the consumer side. The channel closes after Close, once all
// buffered jobs have been received.
func (m *Memory) Jobs() <-chan ThumbnailJob { return m.jobs }

// Close stops accepting jobs. Safe to call more than once.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.jobs)
	}
}
