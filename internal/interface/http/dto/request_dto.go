package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/request"
)

type CreateHiringRequest struct {
	CandidateID string `json:"candidateId" binding:"required,uuid"`
	Role        string `json:"role" binding:"required,oneof=mentor developer"`
	Duration    string `json:"duration" binding:"required"`
	Message     string `json:"message"`
}

type CreateMentorRequest struct {
	MentorID    string          `json:"mentorId" binding:"required,uuid"`
	Message     string          `json:"message" binding:"required"`
	OfferedRate decimal.Decimal `json:"offeredRate"`
}

type CreateSkillExchangeRequest struct {
	RecipientID     string   `json:"recipientId" binding:"required,uuid"`
	OfferedSkills   []string `json:"offeredSkills" binding:"required,min=1"`
	RequestedSkills []string `json:"requestedSkills" binding:"required,min=1"`
}

type RespondSkillExchangeRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

type UserSummaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Image         string    `json:"image,omitempty"`
	Title         string    `json:"title,omitempty"`
	Role          string    `json:"role"`
	MentorRate    float64   `json:"mentorRate"`
	DeveloperRate float64   `json:"developerRate"`
	Skills        []string  `json:"skills"`
}

type RequestResponse struct {
	ID              uuid.UUID            `json:"id"`
	Kind            string               `json:"kind"`
	InitiatorID     uuid.UUID            `json:"initiatorId"`
	CounterpartyID  uuid.UUID            `json:"counterpartyId"`
	Status          string               `json:"status"`
	Paid            bool                 `json:"paid"`
	TransactionID   *uuid.UUID           `json:"transactionId,omitempty"`
	Role            string               `json:"role,omitempty"`
	Rate            *float64             `json:"rate,omitempty"`
	Duration        string               `json:"duration,omitempty"`
	Message         string               `json:"message,omitempty"`
	OfferedRate     *float64             `json:"offeredRate,omitempty"`
	OfferedSkills   []string             `json:"offeredSkills,omitempty"`
	RequestedSkills []string             `json:"requestedSkills,omitempty"`
	Direction       string               `json:"direction,omitempty"`
	OtherUser       *UserSummaryResponse `json:"otherUser,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type CheckPendingResponse struct {
	Exists bool `json:"exists"`
}

func ToRequestResponse(req *entity.Request) RequestResponse {
	resp := RequestResponse{
		ID:             req.ID,
		Kind:           string(req.Kind()),
		InitiatorID:    req.InitiatorID,
		CounterpartyID: req.CounterpartyID,
		Status:         string(req.Status),
		Paid:           req.Paid,
		TransactionID:  req.TransactionID,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}

	switch t := req.Terms.(type) {
	case entity.HiringTerms:
		rate := t.Rate.InexactFloat64()
		resp.Role = string(t.Role)
		resp.Rate = &rate
		resp.Duration = t.Duration
		resp.Message = t.Message
	case entity.MentorTerms:
		rate := t.OfferedRate.InexactFloat64()
		resp.OfferedRate = &rate
		resp.Message = t.Message
	case entity.SkillExchangeTerms:
		resp.OfferedSkills = t.OfferedSkills
		resp.RequestedSkills = t.RequestedSkills
	}
	return resp
}

func ToRequestViewResponse(view request.RequestView) RequestResponse {
	resp := ToRequestResponse(view.Request)
	resp.Direction = "received"
	if view.Outgoing {
		resp.Direction = "sent"
	}
	if view.Other != nil {
		summary := ToUserSummaryResponse(*view.Other)
		resp.OtherUser = &summary
	}
	return resp
}

func ToRequestViewResponses(views []request.RequestView) []RequestResponse {
	out := make([]RequestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToRequestViewResponse(v))
	}
	return out
}

func ToUserSummaryResponse(u entity.UserSummary) UserSummaryResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserSummaryResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Image:         u.Image,
		Title:         u.Title,
		Role:          u.Role,
		MentorRate:    u.MentorRate.InexactFloat64(),
		DeveloperRate: u.DeveloperRate.InexactFloat64(),
		Skills:        skills,
	}
}
