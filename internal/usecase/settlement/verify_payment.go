package settlement

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

type VerifyPaymentOutput struct {
	Replayed bool
	Payout   entity.Payout
}

type VerifyPaymentUseCase struct {
	txRepo  repository.TransactionRepository
	gateway repository.PaymentGateway
}

func NewVerifyPaymentUseCase(txRepo repository.TransactionRepository, gateway repository.PaymentGateway) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		txRepo:  txRepo,
		gateway: gateway,
	}
}

// Execute подтверждает платёж. Повторный вызов для уже успешного платежа возвращает тот же ответ.
func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, input VerifyPaymentInput) (*VerifyPaymentOutput, error) {
	orderID, paymentID, signature := input.GatewayOrderID, input.GatewayPaymentID, input.Signature
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не заполнены поля подтверждения платежа")
	}

	log := logger.L().WithFields(logrus.Fields{
		"gateway_order_id":   orderID,
		"gateway_payment_id": paymentID,
	})

	if !uc.gateway.VerifySignature(orderID, paymentID, signature) {
		log.Warn("неверная подпись платежа")
		return nil, apperror.ErrInvalidSignature
	}

	res, err := uc.txRepo.Confirm(ctx, orderID, paymentID)
	if err != nil {
		return nil, err
	}

	tx := res.Transaction
	log = log.WithField("transaction_id", tx.ID)
	switch {
	case res.Replayed:
		log.Info("повторное подтверждение платежа")
	case res.Outboxed:
		log.WithField("request_id", tx.Linked.ID).Warn("платёж подтверждён, но заявку не удалось отметить оплаченной; запись добавлена в settlement_outbox")
	default:
		log.Info("платёж подтверждён")
	}

	return &VerifyPaymentOutput{
		Replayed: res.Replayed,
		Payout:   tx.Payout(),
	}, nil
}
