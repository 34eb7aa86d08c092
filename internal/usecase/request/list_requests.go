package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/repository"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/pkg/apperror"
)

type ListRequestsInput struct {
	OwnerID   uuid.UUID
	Direction valueobject.Direction
	Kind      valueobject.RequestKind
	Status    valueobject.RequestStatus
}

// RequestView содержит заявку вместе с карточкой второй стороны.
type RequestView struct {
	Request  *entity.Request
	Outgoing bool
	Other    *entity.UserSummary
}

type ListRequestsUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

func NewListRequestsUseCase(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *ListRequestsUseCase {
	return &ListRequestsUseCase{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (uc *ListRequestsUseCase) Execute(ctx context.Context, input ListRequestsInput) ([]RequestView, error) {
	if !input.Kind.IsValid() {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "некорректный тип заявки")
	}
	if input.Direction == "" {
		input.Direction = valueobject.DirectionAll
	}

	requests, err := uc.requestRepo.List(ctx, repository.RequestFilter{
		OwnerID:   input.OwnerID,
		Direction: input.Direction,
		Kind:      input.Kind,
		Status:    input.Status,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.OtherParty(input.OwnerID))
	}
	users, err := uc.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]RequestView, 0, len(requests))
	for _, r := range requests {
		view := RequestView{Request: r, Outgoing: r.InitiatorID == input.OwnerID}
		if u, ok := users[r.OtherParty(input.OwnerID)]; ok {
			summary := u.Summary()
			if !r.ContactVisible() {
				summary.Email = ""
			}
			view.Other = &summary
		}
		views = append(views, view)
	}
	return views, nil
}
