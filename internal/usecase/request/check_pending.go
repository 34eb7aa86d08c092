package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type CheckPendingUseCase struct {
	requestRepo repository.RequestRepository
}

func NewCheckPendingUseCase(requestRepo repository.RequestRepository) *CheckPendingUseCase {
	return &CheckPendingUseCase{requestRepo: requestRepo}
}

func (uc *CheckPendingUseCase) Execute(ctx context.Context, initiatorID, counterpartyID uuid.UUID, kind valueobject.RequestKind) (bool, error) {
	if !kind.IsValid() {
		return false, apperror.New(apperror.ErrCodeInvalidArgument, "некорректный тип заявки")
	}
	if initiatorID == counterpartyID {
		return false, nil
	}
	return uc.requestRepo.ExistsPending(ctx, initiatorID, counterpartyID, kind)
}
