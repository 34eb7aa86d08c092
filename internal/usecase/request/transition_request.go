package request

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type TransitionInput struct {
	RequestID uuid.UUID
	ActorID   uuid.UUID
	// Kind ограничивает вид заявки; заявка другого вида считается не найденной.
	Kind   valueobject.RequestKind
	Target valueobject.RequestStatus
}

type TransitionRequestUseCase struct {
	requestRepo repository.RequestRepository
}

func NewTransitionRequestUseCase(requestRepo repository.RequestRepository) *TransitionRequestUseCase {
	return &TransitionRequestUseCase{requestRepo: requestRepo}
}

// Execute проверяет по порядку: существование, допустимость перехода, права.
func (uc *TransitionRequestUseCase) Execute(ctx context.Context, input TransitionInput) (*entity.Request, error) {
	req, err := uc.requestRepo.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if input.Kind != "" && req.Kind() != input.Kind {
		return nil, apperror.ErrRequestNotFound
	}

	from := req.Status
	if !valueobject.CanTransition(req.Kind(), from, input.Target) {
		return nil, entity.InvalidTransition(from, input.Target)
	}

	if err := entity.Authorize(input.ActorID, req, input.Target).Err(); err != nil {
		return nil, err
	}

	if req.Kind() == valueobject.KindSkillExchange && input.Target == valueobject.RequestStatusAccepted {
		err = uc.requestRepo.AcceptSkillExchange(ctx, req)
	} else {
		err = uc.requestRepo.Transition(ctx, req.ID, from, input.Target)
	}
	if err != nil {
		return nil, err
	}

	if err := req.TransitionTo(input.Target); err != nil {
		return nil, err
	}

	logger.L().WithFields(logrus.Fields{
		"request_id": req.ID,
		"kind":       req.Kind(),
		"from":       from,
		"to":         input.Target,
		"actor_id":   input.ActorID,
	}).Info("статус заявки изменён")

	return req, nil
}
