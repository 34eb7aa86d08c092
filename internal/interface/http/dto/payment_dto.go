package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/skillbridge-backend/internal/domain/entity"
	"github.com/ignatzorin/skillbridge-backend/internal/domain/valueobject"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/settlement"
)

type CreatePaymentOrderRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	ToUserID        string          `json:"toUserId" binding:"required,uuid"`
	Purpose         string          `json:"purpose"`
	MentorRequestID *string         `json:"mentorRequestId" binding:"omitempty,uuid"`
	HireID          *string         `json:"hireId" binding:"omitempty,uuid"`
}

// VerifyPaymentRequest принимает и имена полей Razorpay Checkout.
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	Signature        string `json:"signature"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Normalize подставляет поля Razorpay, если основные не заполнены.
func (r VerifyPaymentRequest) Normalize() settlement.VerifyPaymentInput {
	return settlement.VerifyPaymentInput{
		GatewayOrderID:   firstNonEmpty(r.GatewayOrderID, r.RazorpayOrderID),
		GatewayPaymentID: firstNonEmpty(r.GatewayPaymentID, r.RazorpayPaymentID),
		Signature:        firstNonEmpty(r.Signature, r.RazorpaySignature),
	}
}

type MarkFailedRequest struct {
	GatewayOrderID string `json:"gatewayOrderId" binding:"required"`
}

type CreatePaymentOrderResponse struct {
	Success       bool      `json:"success"`
	OrderID       string    `json:"orderId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	TransactionID uuid.UUID `json:"transactionId"`
}

type PayoutResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	UserID    uuid.UUID `json:"userId"`
	Mode      string    `json:"mode"`
	Purpose   string    `json:"purpose"`
	Reference string    `json:"reference"`
	Narration string    `json:"narration"`
}

type VerifyPaymentResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Payout  PayoutResponse `json:"payout"`
}

type TransactionResponse struct {
	ID               uuid.UUID  `json:"id"`
	FromUserID       uuid.UUID  `json:"fromUserId"`
	ToUserID         uuid.UUID  `json:"toUserId"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	GatewayOrderID   string     `json:"gatewayOrderId"`
	GatewayPaymentID string     `json:"gatewayPaymentId,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	MentorRequestID  *uuid.UUID `json:"mentorRequestId,omitempty"`
	HireID           *uuid.UUID `json:"hireId,omitempty"`
	Direction        string     `json:"direction"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func ToCreatePaymentOrderResponse(out *settlement.CreateOrderOutput) CreatePaymentOrderResponse {
	return CreatePaymentOrderResponse{
		Success:       true,
		OrderID:       out.GatewayOrderID,
		Amount:        out.Amount.InexactFloat64(),
		Currency:      out.Currency,
		TransactionID: out.TransactionID,
	}
}

func ToPayoutResponse(p entity.Payout) PayoutResponse {
	return PayoutResponse{
		ID:        p.ID,
		Status:    p.Status,
		Amount:    p.AmountMinor,
		Currency:  p.Currency,
		UserID:    p.UserID,
		Mode:      p.Mode,
		Purpose:   p.Purpose,
		Reference: p.Reference,
		Narration: p.Narration,
	}
}

// ToTransactionResponse строит ответ с точки зрения viewerID.
func ToTransactionResponse(t *entity.Transaction, viewerID uuid.UUID) TransactionResponse {
	resp := TransactionResponse{
		ID:               t.ID,
		FromUserID:       t.FromUserID,
		ToUserID:         t.ToUserID,
		Amount:           t.Amount.Amount.InexactFloat64(),
		Currency:         t.Amount.Currency,
		Status:           string(t.Status),
		GatewayOrderID:   t.GatewayOrderID,
		GatewayPaymentID: t.GatewayPaymentID,
		Purpose:          t.Purpose,
		Direction:        "received",
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.FromUserID == viewerID {
		resp.Direction = "sent"
	}
	if t.Linked != nil {
		id := t.Linked.ID
		if t.Linked.Kind == valueobject.KindMentor {
			resp.MentorRequestID = &id
		} else {
			resp.HireID = &id
		}
	}
	return resp
}

func ToTransactionResponses(txs []*entity.Transaction, viewerID uuid.UUID) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, ToTransactionResponse(t, viewerID))
	}
	return out
}

// ParseOptionalUUID разбирает необязательный идентификатор из тела запроса.
func ParseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
