package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type CreateRequestInput struct {
	InitiatorID    uuid.UUID
	CounterpartyID uuid.UUID
	Terms          entity.Terms
}

type CreateRequestUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewCreateRequestUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *CreateRequestUseCase {
	return &CreateRequestUseCase{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (uc *CreateRequestUseCase) Execute(ctx context.Context, input CreateRequestInput) (*entity.Request, error) {
	req, err := entity.NewRequest(input.InitiatorID, input.CounterpartyID, input.Terms)
	if err != nil {
		return nil, err
	}

	counterparty, err := uc.userRepo.FindByID(ctx, input.CounterpartyID)
	if err != nil {
		return nil, err
	}

	// Ставка найма фиксируется на момент создания заявки.
	if hiring, ok := req.Terms.(entity.HiringTerms); ok {
		rate := counterparty.RateFor(hiring.Role)
		if !rate.Published() {
			return nil, apperror.New(apperror.ErrCodeRateUndefined, "у пользователя не указана ставка для роли "+string(hiring.Role))
		}
		hiring.Rate = rate.Decimal
		req.Terms = hiring
	}

	exists, err := uc.requestRepo.ExistsPending(ctx, req.InitiatorID, req.CounterpartyID, req.Kind())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrDuplicatePending
	}

	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"request_id":      req.ID,
		"kind":            req.Kind(),
		"initiator_id":    req.InitiatorID,
		"counterparty_id": req.CounterpartyID,
	}).Info("заявка создана")

	return req, nil
}
