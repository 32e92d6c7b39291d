package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReferencePrefix is the public path stored blobs are served under
const ReferencePrefix = "/uploads/"

const maxNameLength = 128

var (
	// ErrObjectNotFound indicates the named blob does not exist
	ErrObjectNotFound = errors.New("object not found")

	// ErrInvalidName indicates a blob name that could escape the store's namespace
	ErrInvalidName = errors.New("invalid object name")
)

// BlobStore persists binary payloads under flat, unique names
type BlobStore interface {
	// Put writes the payload. It returns only once the data is durable.
	Put(ctx context.Context, name string, reader io.Reader, contentType string) error

	// Open returns a reader over the stored payload and its metadata
	Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes the payload
	Delete(ctx context.Context, name string) error
}

// ObjectInfo describes a stored blob
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// StorageError represents a failed blob store operation
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store writes the payload under a freshly generated name and returns the
// reference clients use to fetch it back.
func Store(ctx context.Context, blobs BlobStore, reader io.Reader, originalName, contentType string) (string, error) {
	name := ObjectName(originalName, time.Now())
	if err := blobs.Put(ctx, name, reader, contentType); err != nil {
		return "", &StorageError{Op: "put", Name: name, Err: err}
	}
	return Reference(name), nil
}

// ObjectName builds "<unix millis>-<random>-<sanitized original name>".
// The random part keeps concurrent uploads of the same file name apart.
func ObjectName(originalName string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), random, SanitizeName(originalName))
}

// SanitizeName reduces a client supplied file name to a safe flat name
func SanitizeName(originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.TrimLeft(b.String(), ".")
	if name == "" {
		return "file"
	}

	if len(name) > maxNameLength {
		ext := path.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = name[:maxNameLength-len(ext)] + ext
	}
	return name
}

// ValidateName rejects names that are empty or could address outside a flat namespace
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}

// Reference returns the public path for a stored blob name
func Reference(name string) string {
	return ReferencePrefix + url.PathEscape(name)
}

// NameFromReference extracts the blob name from a reference produced by Reference
func NameFromReference(ref string) (string, bool) {
	if !strings.HasPrefix(ref, ReferencePrefix) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimPrefix(ref, ReferencePrefix))
	if err != nil || ValidateName(name) != nil {
		return "", false
	}
	return name, true
}
