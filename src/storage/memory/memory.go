package memory

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/memecontest/backend/src/storage"
)

type object struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// Backend is an in-memory implementation of storage.BlobStore
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]object),
	}
}

func (b *Backend) Put(ctx context.Context, name string, reader io.Reader, contentType string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[name] = object{data: data, contentType: contentType, updatedAt: time.Now()}
	return nil
}

func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, *storage.ObjectInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[name]
	if !exists {
		return nil, nil, storage.ErrObjectNotFound
	}

	info := &storage.ObjectInfo{
		Name:        name,
		Size:        int64(len(obj.data)),
		ContentType: obj.contentType,
		UpdatedAt:   obj.updatedAt,
	}
	return io.NopCloser(bytes.NewReader(obj.data)), info, nil
}

func (b *Backend) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[name]; !exists {
		return storage.ErrObjectNotFound
	}

	delete(b.objects, name)
	return nil
}

// Len returns the number of stored objects
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
