package entity

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
)

// User содержит поля пользователя, нужные заявкам и графу подписок.
type User struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Image         string
	Title         string
	Role          string
	MentorRate    valueobject.Rate
	DeveloperRate valueobject.Rate
	Skills        []string
	Followers     []uuid.UUID
	Following     []uuid.UUID
}

// RateFor возвращает опубликованную ставку для роли найма.
func (u *User) RateFor(role valueobject.HiringRole) valueobject.Rate {
	if role == valueobject.HiringRoleMentor {
		return u.MentorRate
	}
	return u.DeveloperRate
}

// IsFollowedBy проверяет, подписан ли userID на пользователя.
func (u *User) IsFollowedBy(userID uuid.UUID) bool {
	for _, id := range u.Followers {
		if id == userID {
			return true
		}
	}
	return false
}

// UserSummary описывает карточку второй стороны заявки.
// Email заполняется только когда контакт разрешено раскрыть.
type UserSummary struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Image         string
	Role          string
	Title         string
	MentorRate    valueobject.Rate
	DeveloperRate valueobject.Rate
	Skills        []string
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Image:         u.Image,
		Role:          u.Role,
		Title:         u.Title,
		MentorRate:    u.MentorRate,
		DeveloperRate: u.DeveloperRate,
		Skills:        u.Skills,
	}
}

// FollowProfile описывает элемент списка подписчиков/подписок.
type FollowProfile struct {
	ID    uuid.UUID
	Name  string
	Email string
	Image string
	Role  string
	Title string
}
