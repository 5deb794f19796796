package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Memory is a deterministic in-process gateway used in mock mode and in
// tests. Orders start PENDING; tests (or the mock payment page) settle them
// via Complete/Fail.
type Memory struct {
	mu         sync.Mutex
	orders     map[string]*memOrder
	refunds    map[string]float64
	paymentURL string

	// Err, when set, is returned by every call. Simulates an outage.
	Err error
}

type memOrder struct {
	state         PaymentState
	transactionID string
	amount        float64
}

var _ Gateway = (*Memory)(nil)

func NewMemory(paymentURL string) *Memory {
	return &Memory{
		orders:     make(map[string]*memOrder),
		refunds:    make(map[string]float64),
		paymentURL: paymentURL,
	}
}

func (m *Memory) CreateOrder(_ context.Context, req CreateOrderRequest) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Order{}, m.Err
	}
	m.orders[req.MerchantOrderID] = &memOrder{state: StatePending, amount: req.Amount}
	return Order{
		OrderID:    "OMO" + req.MerchantOrderID,
		PaymentURL: fmt.Sprintf("%s?order=%s", m.paymentURL, req.MerchantOrderID),
	}, nil
}

func (m *Memory) PollStatus(_ context.Context, merchantOrderID string) (OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return OrderStatus{}, m.Err
	}
	o, ok := m.orders[merchantOrderID]
	if !ok {
		return OrderStatus{}, errors.Errorf("unknown order %s", merchantOrderID)
	}
	return OrderStatus{State: o.state, TransactionID: o.transactionID}, nil
}

func (m *Memory) Refund(_ context.Context, merchantOrderID string, amount float64, refundID string) (RefundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return RefundResult{}, m.Err
	}
	if _, ok := m.orders[merchantOrderID]; !ok {
		return RefundResult{}, errors.Errorf("unknown order %s", merchantOrderID)
	}
	m.refunds[refundID] = amount
	return RefundResult{State: "COMPLETED"}, nil
}

// Complete settles an order as paid.
func (m *Memory) Complete(merchantOrderID, transactionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[merchantOrderID]; ok {
		o.state = StateCompleted
		o.transactionID = transactionID
	}
}

// Fail settles an order as declined.
func (m *Memory) Fail(merchantOrderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[merchantOrderID]; ok {
		o.state = StateFailed
	}
}

// Refunded reports the amount refunded under refundID.
func (m *Memory) Refunded(refundID string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	amt, ok := m.refunds[refundID]
	return amt, ok
}
