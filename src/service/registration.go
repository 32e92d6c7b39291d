package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memecontest/backend/src/domain"
	"github.com/memecontest/backend/src/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var ErrMissingFields = errors.New("username, phone and password are required")

type RegisterInput struct {
	Username string
	Phone    string
	Password string
}

type RegistrationService struct {
	contestantRepo repository.ContestantRepository
	bcryptCost     int
	now            func() time.Time
}

// NewRegistrationService hashes with bcrypt.DefaultCost when cost is 0
func NewRegistrationService(contestantRepo repository.ContestantRepository, cost int) *RegistrationService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &RegistrationService{
		contestantRepo: contestantRepo,
		bcryptCost:     cost,
		now:            time.Now,
	}
}

func (s *RegistrationService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "registration-service").Logger()
	return &l
}

func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) error {
	username := strings.TrimSpace(input.Username)
	phone := strings.TrimSpace(input.Phone)
	// the password is taken as typed; only username and phone are trimmed
	if username == "" || phone == "" || input.Password == "" {
		return domain.NewError(domain.ErrorCodeParameterInvalid, ErrMissingFields, domain.WithMsg("All fields are required"))
	}

	_, err := s.contestantRepo.FindContestantByUsername(ctx, username)
	switch {
	case err == nil:
		return usernameTaken()
	case !errors.Is(err, repository.ErrContestantNotFound):
		s.logger(ctx).Error().Err(err).Str("username", username).Msg("failed to look up contestant")
		return domain.NewError(domain.ErrorCodePersistenceFailure, err, domain.WithMsg("An error occurred during registration"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return domain.NewError(domain.ErrorCodeInternalProcess, err, domain.WithMsg("An error occurred during registration"))
	}

	contestant := &domain.Contestant{
		ID:           uuid.NewString(),
		Username:     username,
		Phone:        phone,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.contestantRepo.CreateContestant(ctx, contestant); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return usernameTaken()
		}
		s.logger(ctx).Error().Err(err).Str("username", username).Msg("failed to save contestant")
		return domain.NewError(domain.ErrorCodePersistenceFailure, err, domain.WithMsg("An error occurred during registration"))
	}

	s.logger(ctx).Info().Str("contestant_id", contestant.ID).Str("username", username).Msg("contestant registered")
	return nil
}

func usernameTaken() error {
	return domain.NewError(domain.ErrorCodeResourceConflict, repository.ErrDuplicateUsername, domain.WithMsg("Username already taken"))
}
