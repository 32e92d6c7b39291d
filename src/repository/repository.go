package repository

import (
	"context"
	"errors"

	"github.com/memecontest/backend/src/domain"
)

var (
	ErrContestantNotFound = errors.New("contestant not found")
	ErrDuplicateUsername  = errors.New("username already exists")
)

// MemeRepository is the catalog of uploaded memes
type MemeRepository interface {
	CreateMeme(ctx context.Context, meme *domain.Meme) error
	// ListMemes returns every meme ordered by UploadedAt, newest first.
	// An empty catalog yields an empty, non-nil slice.
	ListMemes(ctx context.Context) ([]*domain.Meme, error)
}

// ContestantRepository stores registrations. CreateContestant must return
// ErrDuplicateUsername when the username is already taken.
type ContestantRepository interface {
	CreateContestant(ctx context.Context, contestant *domain.Contestant) error
	FindContestantByUsername(ctx context.Context, username string) (*domain.Contestant, error)
	CountContestants(ctx context.Context) (int64, error)
}
