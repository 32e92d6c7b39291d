package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/memecontest/backend/src/storage"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	name := "1700000000000-abcd1234-meme.png"
	data := []byte("\x89PNG\r\n\x1a\nhello fs")

	if err := backend.Put(ctx, name, bytes.NewReader(data), "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}

	onDisk, err := os.ReadFile(filepath.Join(tmp, name))
	if err != nil {
		t.Fatalf("read from disk: %v", err)
	}
	if !bytes.Equal(onDisk, data) {
		t.Fatalf("disk content mismatch: %q", onDisk)
	}

	rc, info, err := backend.Open(ctx, name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, data) {
		t.Fatalf("open mismatch: %q", got)
	}
	if info.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), info.Size)
	}
	if info.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %q", info.ContentType)
	}

	if err := backend.Delete(ctx, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, name)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestFSBackend_NoTempFilesLeft(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	if err := backend.Put(context.Background(), "a.txt", bytes.NewReader([]byte("a")), ""); err != nil {
		t.Fatalf("put: %v", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.txt" {
		t.Fatalf("expected only a.txt, got %v", entries)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestFSBackend_FailedWriteLeavesNothing(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	if err := backend.Put(context.Background(), "broken.png", brokenReader{}, ""); err == nil {
		t.Fatalf("expected put error")
	}

	entries, _ := os.ReadDir(tmp)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir after failed write, got %v", entries)
	}
}

func TestFSBackend_Missing(t *testing.T) {
	backend, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if _, _, err := backend.Open(ctx, "nope.png"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if err := backend.Delete(ctx, "nope.png"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestFSBackend_RejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "uploads")
	backend, err := New(Config{BaseDir: base})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(parent, "secret"), []byte("s"), 0644); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	if err := backend.Put(ctx, "../escape", bytes.NewReader([]byte("x")), ""); !errors.Is(err, storage.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, _, err := backend.Open(ctx, ".."); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if _, _, err := backend.Open(ctx, "../secret"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestNew_RequiresBaseDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without base dir")
	}
}
