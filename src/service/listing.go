package service

import (
	"context"

	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
	"github.com/rs/zerolog"
)

type ListingService struct {
	memeRepo repository.MemeRepository
}

func NewListingService(memeRepo repository.MemeRepository) *ListingService {
	return &ListingService{memeRepo: memeRepo}
}

func (s *ListingService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "listing-service").Logger()
	return &l
}

// ListMemes returns the whole catalog, newest first
func (s *ListingService) ListMemes(ctx context.Context) ([]*domain.Meme, error) {
	memes, err := s.memeRepo.ListMemes(ctx)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to retrieve memes from repository")
		return nil, domain.NewError(domain.ErrorCodePersistenceFailure, err, domain.WithMsg("Failed to fetch memes"))
	}
	if memes == nil {
		memes = []*domain.Meme{}
	}

	s.logger(ctx).Debug().Int("meme_count", len(memes)).Msg("retrieved memes from repository")
	return memes, nil
}
