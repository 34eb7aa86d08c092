package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
)

type RequestFilter struct {
	OwnerID   uuid.UUID
	Direction valueobject.Direction
	Kind      valueobject.RequestKind
	Status    valueobject.RequestStatus
}

type RequestRepository interface {
	// Create сохраняет заявку. Вторая ожидающая заявка той же пары и вида даёт DuplicatePending.
	Create(ctx context.Context, req *entity.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)
	ExistsPending(ctx context.Context, initiatorID, counterpartyID uuid.UUID, kind valueobject.RequestKind) (bool, error)
	// Transition меняет статус только если текущий статус равен from, иначе InvalidTransition.
	Transition(ctx context.Context, id uuid.UUID, from, to valueobject.RequestStatus) error
	// AcceptSkillExchange принимает обмен и объединяет навыки сторон в одной транзакции.
	AcceptSkillExchange(ctx context.Context, req *entity.Request) error
	// List возвращает заявки владельца, новые первыми.
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)
}
