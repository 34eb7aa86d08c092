package repository

import (
	"context"
)

// GatewayOrder описывает заказ, созданный на стороне платёжного шлюза.
type GatewayOrder struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
	Status      string
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	// VerifySignature проверяет подпись обратного вызова шлюза за постоянное время.
	VerifySignature(orderID, paymentID, signature string) bool
}
