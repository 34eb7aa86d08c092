package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
)

type FollowRepository interface {
	// UpdatePair блокирует обоих пользователей в порядке id, вызывает fn и сохраняет их
	// followers/following в одной транзакции. При сериализационном конфликте операция
	// повторяется целиком, fn может быть вызвана несколько раз.
	UpdatePair(ctx context.Context, actorID, targetID uuid.UUID, fn func(actor, target *entity.User) error) error
	// Profiles возвращает карточки в порядке ids, отсутствующих пользователей пропускает.
	Profiles(ctx context.Context, ids []uuid.UUID) ([]entity.FollowProfile, error)
}
