package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/memecontest/backend/src/storage"
)

// Backend is a filesystem implementation of storage.BlobStore.
// All blobs live directly inside BaseDir.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Directory the upload files are written to
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir: config.BaseDir,
	}, nil
}

// BaseDir returns the directory blobs are written to
func (b *Backend) BaseDir() string {
	return b.baseDir
}

// Put writes the payload to a temporary file, syncs it and renames it into
// place, so the final name only ever refers to a complete file.
func (b *Backend) Put(ctx context.Context, name string, reader io.Reader, contentType string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.baseDir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, reader); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(b.baseDir, name)); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	committed = true

	return nil
}

// Open opens a stored file for reading
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, *storage.ObjectInfo, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, nil, storage.ErrObjectNotFound
	}

	file, err := os.Open(filepath.Join(b.baseDir, name))
	if os.IsNotExist(err) {
		return nil, nil, storage.ErrObjectNotFound
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if stat.IsDir() {
		_ = file.Close()
		return nil, nil, storage.ErrObjectNotFound
	}

	contentType, err := detectContentType(file, name)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	info := &storage.ObjectInfo{
		Name:        name,
		Size:        stat.Size(),
		ContentType: contentType,
		UpdatedAt:   stat.ModTime(),
	}

	return file, info, nil
}

// Delete removes a stored file
func (b *Backend) Delete(ctx context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(b.baseDir, name))
	if os.IsNotExist(err) {
		return storage.ErrObjectNotFound
	} else if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// detectContentType prefers the extension and falls back to sniffing the first 512 bytes
func detectContentType(file *os.File, name string) (string, error) {
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		return contentType, nil
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	return http.DetectContentType(buffer[:n]), nil
}
