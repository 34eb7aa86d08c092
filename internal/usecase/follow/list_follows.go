package follow

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
)

type ListFollowsUseCase struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewListFollowsUseCase(userRepo repository.UserRepository, followRepo repository.FollowRepository) *ListFollowsUseCase {
	return &ListFollowsUseCase{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

func (uc *ListFollowsUseCase) Followers(ctx context.Context, userID uuid.UUID) ([]entity.FollowProfile, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.followRepo.Profiles(ctx, u.Followers)
}

func (uc *ListFollowsUseCase) Following(ctx context.Context, userID uuid.UUID) ([]entity.FollowProfile, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.followRepo.Profiles(ctx, u.Following)
}
