package gateway

import (
	"context"
	"encoding/json"
)

// PaymentState is the gateway-side view of an order. It is the only truth
// the reconciliation logic acts on; callback payloads are never trusted.
type PaymentState string

const (
	StatePending   PaymentState = "PENDING"
	StateCompleted PaymentState = "COMPLETED"
	StateFailed    PaymentState = "FAILED"
)

type CreateOrderRequest struct {
	Amount          float64
	RedirectURL     string
	MerchantOrderID string
	Metadata        map[string]string
}

type Order struct {
	OrderID    string
	PaymentURL string
}

type OrderStatus struct {
	State         PaymentState
	TransactionID string
	// Raw is the provider response as received, stored for audit only.
	Raw json.RawMessage
}

type RefundResult struct {
	State string
}

// Gateway is the payment provider capability. Errors are network/provider
// failures, never business outcomes; a declined payment is a FAILED state,
// not an error.
type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	PollStatus(ctx context.Context, merchantOrderID string) (OrderStatus, error)
	Refund(ctx context.Context, merchantOrderID string, amount float64, refundID string) (RefundResult, error)
}
