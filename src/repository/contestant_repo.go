package repository

import (
	"context"
	"errors"

	"github.com/memecontest/backend/src/domain"
	"gorm.io/gorm"
)

type ContestantRepositoryImpl struct {
	db *gorm.DB
}

func NewContestantRepository(db *gorm.DB) *ContestantRepositoryImpl {
	return &ContestantRepositoryImpl{db: db}
}

// CreateContestant inserts a contestant. The unique index on username decides
// races between concurrent registrations.
func (r *ContestantRepositoryImpl) CreateContestant(ctx context.Context, contestant *domain.Contestant) error {
	err := r.db.WithContext(ctx).Create(contestant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}
	return err
}

func (r *ContestantRepositoryImpl) FindContestantByUsername(ctx context.Context, username string) (*domain.Contestant, error) {
	var contestant domain.Contestant
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&contestant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestantNotFound
		}
		return nil, err
	}
	return &contestant, nil
}

func (r *ContestantRepositoryImpl) CountContestants(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Contestant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
