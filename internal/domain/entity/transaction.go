package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

// LinkedRequest ссылается на оплачиваемую заявку.
type LinkedRequest struct {
	Kind valueobject.RequestKind
	ID   uuid.UUID
}

// Transaction описывает платёж между пользователями, проведённый через шлюз.
type Transaction struct {
	ID               uuid.UUID
	FromUserID       uuid.UUID
	ToUserID         uuid.UUID
	Amount           valueobject.Money
	Status           valueobject.TransactionStatus
	GatewayOrderID   string
	GatewayPaymentID string
	Purpose          string
	Linked           *LinkedRequest
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTransaction создаёт платёж в статусе pending для уже созданного заказа шлюза.
func NewTransaction(id, from, to uuid.UUID, amount valueobject.Money, gatewayOrderID, purpose string, linked *LinkedRequest) (*Transaction, error) {
	if strings.TrimSpace(gatewayOrderID) == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указан идентификатор заказа шлюза")
	}
	if from == to {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "нельзя оплатить самому себе")
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:             id,
		FromUserID:     from,
		ToUserID:       to,
		Amount:         amount,
		Status:         valueobject.TransactionStatusPending,
		GatewayOrderID: gatewayOrderID,
		Purpose:        strings.TrimSpace(purpose),
		Linked:         linked,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkSucceeded переводит платёж в success. changed == false означает повторное подтверждение
// уже успешного платежа, менять ничего не нужно.
func (t *Transaction) MarkSucceeded(paymentID string) (changed bool, err error) {
	switch t.Status {
	case valueobject.TransactionStatusSuccess:
		return false, nil
	case valueobject.TransactionStatusFailed:
		return false, apperror.New(apperror.ErrCodeInvalidTransition, "платёж уже отмечен как неуспешный")
	}
	t.Status = valueobject.TransactionStatusSuccess
	t.GatewayPaymentID = paymentID
	t.UpdatedAt = time.Now().UTC()
	return true, nil
}

// MarkFailed переводит ожидающий платёж в failed. Сообщить о неуспехе может только плательщик.
func (t *Transaction) MarkFailed(actor uuid.UUID) error {
	if actor != t.FromUserID {
		return apperror.New(apperror.ErrCodeForbidden, "отметить платёж может только плательщик")
	}
	if t.Status != valueobject.TransactionStatusPending {
		return apperror.New(apperror.ErrCodeInvalidTransition, "платёж уже завершён")
	}
	t.Status = valueobject.TransactionStatusFailed
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Transaction) Involves(userID uuid.UUID) bool {
	return t.FromUserID == userID || t.ToUserID == userID
}

// Payout подтверждает выплату получателю.
type Payout struct {
	ID          string
	Status      string
	AmountMinor int64
	Currency    string
	UserID      uuid.UUID
	Mode        string
	Purpose     string
	Reference   string
	Narration   string
}

// Payout детерминированно строит подтверждение выплаты из успешного платежа,
// поэтому повторная проверка возвращает тот же ответ.
func (t *Transaction) Payout() Payout {
	return Payout{
		ID:          "payout_" + t.ID.String(),
		Status:      "processed",
		AmountMinor: t.Amount.MinorUnits(),
		Currency:    t.Amount.Currency,
		UserID:      t.ToUserID,
		Mode:        "IMPS",
		Purpose:     "payout",
		Reference:   "payout_ref_" + t.GatewayPaymentID,
		Narration:   "Выплата смоделирована в тестовом режиме",
	}
}

// SettlementOutboxEntry фиксирует отметку об оплате заявки, которую не удалось применить
// в момент подтверждения платежа.
type SettlementOutboxEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	RequestID     uuid.UUID
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	NextAttemptAt time.Time
	ResolvedAt    *time.Time
	// AbandonedAt выставляется, когда отметку уже нельзя применить. Причина в LastError.
	AbandonedAt *time.Time
}
