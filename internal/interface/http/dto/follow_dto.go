package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
)

type FollowProfileResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image string    `json:"image,omitempty"`
	Role  string    `json:"role"`
	Title string    `json:"title,omitempty"`
}

type ToggleFollowResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	Following bool                    `json:"isFollowing"`
	Followers []FollowProfileResponse `json:"followers"`
	// подписки того, кто нажал кнопку
	FollowingList []FollowProfileResponse `json:"following"`
}

func ToFollowProfileResponses(profiles []entity.FollowProfile) []FollowProfileResponse {
	out := make([]FollowProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FollowProfileResponse{
			ID:    p.ID,
			Name:  p.Name,
			Email: p.Email,
			Image: p.Image,
			Role:  p.Role,
			Title: p.Title,
		})
	}
	return out
}
