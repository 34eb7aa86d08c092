package settlement

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type MarkFailedUseCase struct {
	txRepo repository.TransactionRepository
}

func NewMarkFailedUseCase(txRepo repository.TransactionRepository) *MarkFailedUseCase {
	return &MarkFailedUseCase{txRepo: txRepo}
}

func (uc *MarkFailedUseCase) Execute(ctx context.Context, gatewayOrderID string, actorID uuid.UUID) (*entity.Transaction, error) {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	if gatewayOrderID == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указан идентификатор заказа")
	}

	tx, err := uc.txRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if err := tx.MarkFailed(actorID); err != nil {
		return nil, err
	}
	if err := uc.txRepo.UpdateStatus(ctx, tx.ID, valueobject.TransactionStatusPending, valueobject.TransactionStatusFailed); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"transaction_id":   tx.ID,
		"gateway_order_id": gatewayOrderID,
	}).Info("платёж отмечен как неуспешный")

	return tx, nil
}
