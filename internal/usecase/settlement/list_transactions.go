package settlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ListTransactionsUseCase struct {
	txRepo repository.TransactionRepository
}

func NewListTransactionsUseCase(txRepo repository.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{txRepo: txRepo}
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error) {
	if offset < 0 {
		offset = 0
	}
	return uc.txRepo.ListByUser(ctx, userID, ClampLimit(limit), offset)
}

// ClampLimit приводит limit к диапазону 1..MaxListLimit, ноль и отрицательные значения дают DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
