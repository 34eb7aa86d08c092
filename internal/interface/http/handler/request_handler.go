package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/request"
)

// RequestHandler обслуживает заявки на найм, менторство и обмен навыками.
type RequestHandler struct {
	createUC     *request.CreateRequestUseCase
	transitionUC *request.TransitionRequestUseCase
	listUC       *request.ListRequestsUseCase
	checkUC      *request.CheckPendingUseCase
}

func NewRequestHandler(
	createUC *request.CreateRequestUseCase,
	transitionUC *request.TransitionRequestUseCase,
	listUC *request.ListRequestsUseCase,
	checkUC *request.CheckPendingUseCase,
) *RequestHandler {
	return &RequestHandler{
		createUC:     createUC,
		transitionUC: transitionUC,
		listUC:       listUC,
		checkUC:      checkUC,
	}
}

// CreateHiring обрабатывает POST /hiring/create.
func (h *RequestHandler) CreateHiring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateHiringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	h.create(c, userID, uuid.MustParse(req.CandidateID), entity.HiringTerms{
		Role:     valueobject.HiringRole(req.Role),
		Duration: req.Duration,
		Message:  req.Message,
	})
}

// CreateMentor обрабатывает POST /mentor-requests/send.
func (h *RequestHandler) CreateMentor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	h.create(c, userID, uuid.MustParse(req.MentorID), entity.MentorTerms{
		OfferedRate: req.OfferedRate,
		Message:     req.Message,
	})
}

// CreateSkillExchange обрабатывает POST /skill-exchange/request.
func (h *RequestHandler) CreateSkillExchange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreateSkillExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	h.create(c, userID, uuid.MustParse(req.RecipientID), entity.SkillExchangeTerms{
		OfferedSkills:   req.OfferedSkills,
		RequestedSkills: req.RequestedSkills,
	})
}

func (h *RequestHandler) create(c *gin.Context, initiatorID, counterpartyID uuid.UUID, terms entity.Terms) {
	created, err := h.createUC.Execute(c.Request.Context(), request.CreateRequestInput{
		InitiatorID:    initiatorID,
		CounterpartyID: counterpartyID,
		Terms:          terms,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToRequestResponse(created))
}

// Transition возвращает обработчик перехода заявки kind в статус target по :id.
func (h *RequestHandler) Transition(kind valueobject.RequestKind, target valueobject.RequestStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		requestID, ok := parseUUIDParam(c, "id")
		if !ok {
			response.BadRequest(c, "некорректный ID заявки")
			return
		}

		h.transition(c, userID, requestID, kind, target)
	}
}

// RespondSkillExchange обрабатывает PATCH /skill-exchange/:id/respond.
func (h *RequestHandler) RespondSkillExchange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "некорректный ID заявки")
		return
	}

	var req dto.RespondSkillExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "статус должен быть accepted или rejected")
		return
	}

	h.transition(c, userID, requestID, valueobject.KindSkillExchange, valueobject.RequestStatus(req.Status))
}

func (h *RequestHandler) transition(c *gin.Context, actorID, requestID uuid.UUID, kind valueobject.RequestKind, target valueobject.RequestStatus) {
	updated, err := h.transitionUC.Execute(c.Request.Context(), request.TransitionInput{
		RequestID: requestID,
		ActorID:   actorID,
		Kind:      kind,
		Target:    target,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToRequestResponse(updated))
}

// List возвращает обработчик списка заявок kind в направлении direction.
// Необязательный ?status= сужает выборку.
func (h *RequestHandler) List(kind valueobject.RequestKind, direction valueobject.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		var status valueobject.RequestStatus
		if raw := c.Query("status"); raw != "" {
			status, err = valueobject.NewRequestStatus(raw)
			if err != nil {
				response.Error(c, err)
				return
			}
		}

		views, err := h.listUC.Execute(c.Request.Context(), request.ListRequestsInput{
			OwnerID:   userID,
			Direction: direction,
			Kind:      kind,
			Status:    status,
		})
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto.ToRequestViewResponses(views))
	}
}

// CheckPending возвращает обработчик проверки ожидающей заявки текущего пользователя
// пользователю из параметра param.
func (h *RequestHandler) CheckPending(kind valueobject.RequestKind, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserID(c)
		if err != nil {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		counterpartyID, ok := parseUUIDParam(c, param)
		if !ok {
			response.BadRequest(c, "некорректный ID пользователя")
			return
		}

		exists, err := h.checkUC.Execute(c.Request.Context(), userID, counterpartyID, kind)
		if err != nil {
			response.Error(c, err)
			return
		}

		response.Success(c, dto.CheckPendingResponse{Exists: exists})
	}
}
