package follow

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type ToggleResult struct {
	// Following показывает, подписан ли actor на target после переключения.
	Following bool
	// Followers содержит подписчиков target.
	Followers []entity.FollowProfile
	// ActorFollowing содержит подписки actor.
	ActorFollowing []entity.FollowProfile
}

type ToggleFollowUseCase struct {
	followRepo repository.FollowRepository
}

func NewToggleFollowUseCase(followRepo repository.FollowRepository) *ToggleFollowUseCase {
	return &ToggleFollowUseCase{followRepo: followRepo}
}

func (uc *ToggleFollowUseCase) Execute(ctx context.Context, actorID, targetID uuid.UUID) (*ToggleResult, error) {
	if actorID == targetID {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "нельзя подписаться на самого себя")
	}

	var (
		following      bool
		followerIDs    []uuid.UUID
		actorFollowing []uuid.UUID
	)
	err := uc.followRepo.UpdatePair(ctx, actorID, targetID, func(actor, target *entity.User) error {
		following = Toggle(actor, target)
		followerIDs = append([]uuid.UUID(nil), target.Followers...)
		actorFollowing = append([]uuid.UUID(nil), actor.Following...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	followers, err := uc.followRepo.Profiles(ctx, followerIDs)
	if err != nil {
		return nil, err
	}
	followingProfiles, err := uc.followRepo.Profiles(ctx, actorFollowing)
	if err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"actor_id":  actorID,
		"target_id": targetID,
		"following": following,
	}).Debug("подписка переключена")

	return &ToggleResult{
		Following:      following,
		Followers:      followers,
		ActorFollowing: followingProfiles,
	}, nil
}

// Toggle меняет ребро actor -> target в обоих множествах и возвращает новое состояние.
// Направление определяется по target.Followers.
func Toggle(actor, target *entity.User) bool {
	if target.IsFollowedBy(actor.ID) {
		target.Followers = without(target.Followers, actor.ID)
		actor.Following = without(actor.Following, target.ID)
		return false
	}
	target.Followers = with(target.Followers, actor.ID)
	actor.Following = with(actor.Following, target.ID)
	return true
}

func with(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
