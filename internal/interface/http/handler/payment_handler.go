package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/dto"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/response"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/settlement"
)

type PaymentHandler struct {
	createOrderUC *settlement.CreateOrderUseCase
	verifyUC      *settlement.VerifyPaymentUseCase
	markFailedUC  *settlement.MarkFailedUseCase
	listUC        *settlement.ListTransactionsUseCase
}

func NewPaymentHandler(
	createOrderUC *settlement.CreateOrderUseCase,
	verifyUC *settlement.VerifyPaymentUseCase,
	markFailedUC *settlement.MarkFailedUseCase,
	listUC *settlement.ListTransactionsUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		createOrderUC: createOrderUC,
		verifyUC:      verifyUC,
		markFailedUC:  markFailedUC,
		listUC:        listUC,
	}
}

// CreateOrder обрабатывает POST /payments/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	mentorRequestID, err := dto.ParseOptionalUUID(req.MentorRequestID)
	if err != nil {
		response.BadRequest(c, "некорректный mentorRequestId")
		return
	}
	hireID, err := dto.ParseOptionalUUID(req.HireID)
	if err != nil {
		response.BadRequest(c, "некорректный hireId")
		return
	}

	out, err := h.createOrderUC.Execute(c.Request.Context(), settlement.CreateOrderInput{
		PayerID:         userID,
		PayeeID:         uuid.MustParse(req.ToUserID),
		Amount:          req.Amount,
		Purpose:         req.Purpose,
		MentorRequestID: mentorRequestID,
		HireID:          hireID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.ToCreatePaymentOrderResponse(out))
}

// VerifyPayment обрабатывает POST /payments/verify-payment.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	out, err := h.verifyUC.Execute(c.Request.Context(), req.Normalize())
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "платёж подтверждён"
	if out.Replayed {
		message = "платёж уже был подтверждён"
	}
	response.JSON(c, http.StatusOK, dto.VerifyPaymentResponse{
		Success: true,
		Message: message,
		Payout:  dto.ToPayoutResponse(out.Payout),
	})
}

// MarkFailed обрабатывает POST /payments/mark-failed.
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	var req dto.MarkFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "не указан gatewayOrderId")
		return
	}

	tx, err := h.markFailedUC.Execute(c.Request.Context(), req.GatewayOrderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToTransactionResponse(tx, userID))
}

// Transactions обрабатывает GET /payments/transactions?limit=&offset=.
func (h *PaymentHandler) Transactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	limit := parseIntQuery(c, "limit", settlement.DefaultListLimit)
	offset := parseIntQuery(c, "offset", 0)

	txs, err := h.listUC.Execute(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToTransactionResponses(txs, userID), settlement.ClampLimit(limit), max(offset, 0))
}
