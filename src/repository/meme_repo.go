package repository

import (
	"context"

	"github.com/memecontest/backend/src/domain"
	"gorm.io/gorm"
)

type MemeRepositoryImpl struct {
	db *gorm.DB
}

func NewMemeRepository(db *gorm.DB) *MemeRepositoryImpl {
	return &MemeRepositoryImpl{db: db}
}

func (r *MemeRepositoryImpl) CreateMeme(ctx context.Context, meme *domain.Meme) error {
	return r.db.WithContext(ctx).Create(meme).Error
}

// ListMemes retrieves all memes, newest first
func (r *MemeRepositoryImpl) ListMemes(ctx context.Context) ([]*domain.Meme, error) {
	memes := make([]*domain.Meme, 0)
	if err := r.db.WithContext(ctx).Order("uploaded_at DESC").Order("id DESC").Find(&memes).Error; err != nil {
		return nil, err
	}
	return memes, nil
}
