package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/memecontest/backend/src/storage"
	"github.com/memecontest/backend/src/storage/fs"
	"github.com/memecontest/backend/src/storage/memory"
	"github.com/memecontest/backend/src/storage/s3"
)

// newBlobStore builds the backend named by STORAGE_URL
func newBlobStore(ctx context.Context, config AppConfig) (storage.BlobStore, error) {
	storageURL := *config.StorageURL

	switch {
	case strings.HasPrefix(storageURL, "file://"):
		dir := strings.TrimPrefix(storageURL, "file://")
		if dir == "" {
			dir = *config.UploadDir
		}
		return fs.New(fs.Config{BaseDir: dir})

	case strings.HasPrefix(storageURL, "memory://"):
		return memory.New(), nil

	case strings.HasPrefix(storageURL, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(storageURL, "s3://"), "/")
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		s3Config := s3.Config{Bucket: bucket, Prefix: prefix}
		if config.S3 != nil {
			s3Config.Region = config.S3.Region
			s3Config.Endpoint = config.S3.Endpoint
			s3Config.AccessKeyID = config.S3.AccessKeyID
			s3Config.SecretAccessKey = config.S3.SecretAccessKey
			s3Config.UsePathStyle = config.S3.UsePathStyle
			s3Config.CreateBucketIfNotExist = config.S3.CreateBucket
		}
		return s3.New(ctx, s3Config)

	default:
		return nil, fmt.Errorf("unsupported STORAGE_URL %q", storageURL)
	}
}
