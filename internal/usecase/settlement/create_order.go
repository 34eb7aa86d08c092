package settlement

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
	"github.com/ignatzorin/skillbridge-backend/internal/validation"
)

type CreateOrderInput struct {
	PayerID         uuid.UUID
	PayeeID         uuid.UUID
	Amount          decimal.Decimal
	Purpose         string
	MentorRequestID *uuid.UUID
	HireID          *uuid.UUID
}

type CreateOrderOutput struct {
	GatewayOrderID string
	Amount         decimal.Decimal
	Currency       string
	TransactionID  uuid.UUID
}

type CreateOrderUseCase struct {
	txRepo      repository.TransactionRepository
	requestRepo repository.RequestRepository
	gateway     repository.PaymentGateway
	currency    string
}

func NewCreateOrderUseCase(txRepo repository.TransactionRepository, requestRepo repository.RequestRepository, gateway repository.PaymentGateway, currency string) *CreateOrderUseCase {
	if strings.TrimSpace(currency) == "" {
		currency = valueobject.DefaultCurrency
	}
	return &CreateOrderUseCase{
		txRepo:      txRepo,
		requestRepo: requestRepo,
		gateway:     gateway,
		currency:    currency,
	}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	if input.PayeeID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указан получатель платежа")
	}
	if input.PayerID == input.PayeeID {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "нельзя оплатить самому себе")
	}
	amount, err := valueobject.NewMoney(input.Amount, uc.currency)
	if err != nil {
		return nil, err
	}
	if input.MentorRequestID != nil && input.HireID != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "укажите либо mentorRequestId, либо hireId")
	}
	if err := validation.ValidateLength("назначение платежа", input.Purpose, 0, validation.MaxPurposeLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, err.Error())
	}

	linked, err := uc.checkLinkedRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	txID := uuid.New()
	order, err := uc.gateway.CreateOrder(ctx, amount.MinorUnits(), amount.Currency, "receipt_"+txID.String())
	if err != nil {
		logger.L().WithError(err).WithField("payer_id", input.PayerID).Error("не удалось создать заказ в платёжном шлюзе")
		return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "платёжный шлюз недоступен, попробуйте позже")
	}

	tx, err := entity.NewTransaction(txID, input.PayerID, input.PayeeID, amount, order.ID, input.Purpose, linked)
	if err != nil {
		return nil, err
	}
	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"transaction_id":   tx.ID,
		"gateway_order_id": order.ID,
		"payer_id":         input.PayerID,
		"payee_id":         input.PayeeID,
		"amount_minor":     amount.MinorUnits(),
	}).Info("заказ на оплату создан")

	return &CreateOrderOutput{
		GatewayOrderID: order.ID,
		Amount:         amount.Amount,
		Currency:       amount.Currency,
		TransactionID:  tx.ID,
	}, nil
}

// checkLinkedRequest проверяет, что оплачиваемая заявка принадлежит сторонам платежа и ждёт оплаты.
func (uc *CreateOrderUseCase) checkLinkedRequest(ctx context.Context, input CreateOrderInput) (*entity.LinkedRequest, error) {
	var linked *entity.LinkedRequest
	switch {
	case input.MentorRequestID != nil:
		linked = &entity.LinkedRequest{Kind: valueobject.KindMentor, ID: *input.MentorRequestID}
	case input.HireID != nil:
		linked = &entity.LinkedRequest{Kind: valueobject.KindHiring, ID: *input.HireID}
	default:
		return nil, nil
	}

	req, err := uc.requestRepo.FindByID(ctx, linked.ID)
	if err != nil {
		return nil, err
	}
	if req.Kind() != linked.Kind {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "тип заявки не совпадает с переданной ссылкой")
	}
	if !req.IsParty(input.PayerID) || req.OtherParty(input.PayerID) != input.PayeeID {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "плательщик и получатель должны быть сторонами заявки")
	}
	if err := req.Payable(); err != nil {
		return nil, err
	}
	return linked, nil
}
