package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
)

// ConfirmResult описывает итог подтверждения платежа.
type ConfirmResult struct {
	Transaction *entity.Transaction
	// Replayed: платёж уже был успешным, ничего не записано.
	Replayed bool
	// Outboxed: заявку не удалось отметить оплаченной, создана запись в settlement_outbox.
	Outboxed bool
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*entity.Transaction, error)
	// Confirm в одной транзакции блокирует платёж, переводит его в success и отмечает
	// связанную заявку оплаченной либо пишет запись в outbox.
	Confirm(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*ConfirmResult, error)
	// UpdateStatus меняет статус только если текущий статус равен from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.TransactionStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Transaction, error)
}

type SettlementOutboxRepository interface {
	// ListOpen возвращает открытые записи, время повтора которых наступило, старые первыми.
	ListOpen(ctx context.Context, limit int) ([]entity.SettlementOutboxEntry, error)
	// Apply отмечает заявку оплаченной и закрывает запись. applied == false, если заявка
	// уже не в статусе accepted.
	Apply(ctx context.Context, entry entity.SettlementOutboxEntry) (applied bool, err error)
	// Resolve закрывает запись без изменения заявки.
	Resolve(ctx context.Context, id uuid.UUID) error
	// RecordAttempt сохраняет причину неудачи и откладывает следующую попытку.
	RecordAttempt(ctx context.Context, id uuid.UUID, lastError string) error
	// Abandon окончательно закрывает запись, которую нельзя применить.
	Abandon(ctx context.Context, id uuid.UUID, reason string) error
}
