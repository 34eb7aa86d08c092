package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// FindByIDs возвращает найденных пользователей; отсутствующие id пропускаются.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error)
}
