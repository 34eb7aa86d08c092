package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/follow"
)

type FollowHandler struct {
	toggleUC *follow.ToggleFollowUseCase
	listUC   *follow.ListFollowsUseCase
}

func NewFollowHandler(toggleUC *follow.ToggleFollowUseCase, listUC *follow.ListFollowsUseCase) *FollowHandler {
	return &FollowHandler{
		toggleUC: toggleUC,
		listUC:   listUC,
	}
}

// Toggle обрабатывает POST /users/follow/:id.
func (h *FollowHandler) Toggle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	targetID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	res, err := h.toggleUC.Execute(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "вы отписались"
	if res.Following {
		message = "вы подписались"
	}
	response.JSON(c, http.StatusOK, dto.ToggleFollowResponse{
		Success:       true,
		Message:       message,
		Following:     res.Following,
		Followers:     dto.ToFollowProfileResponses(res.Followers),
		FollowingList: dto.ToFollowProfileResponses(res.ActorFollowing),
	})
}

// Followers обрабатывает GET /users/:id/followers.
func (h *FollowHandler) Followers(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	profiles, err := h.listUC.Followers(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFollowProfileResponses(profiles))
}

// Following обрабатывает GET /users/:id/following.
func (h *FollowHandler) Following(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "некорректный ID пользователя")
		return
	}

	profiles, err := h.listUC.Following(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToFollowProfileResponses(profiles))
}
