package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
	"github.com/memecontest/backend/src/storage"
	"github.com/rs/zerolog"
)

var ErrNoFile = errors.New("no file provided")

// FilePayload is an uploaded file as received at the HTTP boundary
type FilePayload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadInput struct {
	Title string
	File  *FilePayload
}

type UploadService struct {
	blobs    storage.BlobStore
	memeRepo repository.MemeRepository
	now      func() time.Time
}

func NewUploadService(blobs storage.BlobStore, memeRepo repository.MemeRepository) *UploadService {
	return &UploadService{
		blobs:    blobs,
		memeRepo: memeRepo,
		now:      time.Now,
	}
}

// logger wraps the execution context with component info
func (s *UploadService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "upload-service").Logger()
	return &l
}

// Upload stores the file and then records it in the catalog. A catalog failure
// removes the blob again so the two never diverge.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*domain.Meme, error) {
	if input.File == nil || input.File.Reader == nil {
		return nil, domain.NewError(domain.ErrorCodeParameterInvalid, ErrNoFile, domain.WithMsg("No file provided"))
	}

	// v7 ids sort in creation order, which breaks uploadedAt ties in the stores
	id, err := uuid.NewV7()
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("Failed to upload meme"))
	}

	ref, err := storage.Store(ctx, s.blobs, input.File.Reader, input.File.Name, input.File.ContentType)
	if err != nil {
		s.logger(ctx).Error().Err(err).Str("file", input.File.Name).Msg("failed to store blob")
		return nil, domain.NewError(domain.ErrorCodeStorageFailure, err, domain.WithMsg("Failed to upload meme"))
	}

	meme := &domain.Meme{
		ID:         id.String(),
		Title:      input.Title,
		ImageURL:   ref,
		UploadedAt: s.now().UTC(),
	}

	if err := s.memeRepo.CreateMeme(ctx, meme); err != nil {
		s.logger(ctx).Error().Err(err).Str("image_url", ref).Msg("failed to save meme")
		s.discardBlob(ctx, ref)
		return nil, domain.NewError(domain.ErrorCodePersistenceFailure, err, domain.WithMsg("Failed to upload meme"))
	}

	s.logger(ctx).Info().Str("meme_id", meme.ID).Str("image_url", ref).Int64("size", input.File.Size).Msg("meme uploaded")
	return meme, nil
}

func (s *UploadService) discardBlob(ctx context.Context, ref string) {
	name, ok := storage.NameFromReference(ref)
	if !ok {
		return
	}
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	if err := s.blobs.Delete(ctx, name); err != nil {
		s.logger(ctx).Warn().Err(err).Str("blob", name).Msg("failed to remove orphaned blob")
	}
}
