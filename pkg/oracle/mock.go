package oracle

import (
	"context"
	"errors"
	"math/big"
	"sync"
)

// Mock is a deterministic in-process RandomnessProvider used in tests and
// when Oracle.MockOracle is enabled. Request ids are assigned monotonically.
// If FulfillFunc is set it is invoked synchronously after each request,
// letting tests drive the fulfillment callback without a network round trip.
type Mock struct {
	mu     sync.Mutex
	nextID uint64

	Price         *big.Int
	QuoteErr      error
	RequestErr    error
	LastExtraArgs []byte
	LastPayment   *big.Int
	FulfillFunc   func(requestID uint64)
}

// NewMock creates a mock oracle quoting the given price
func NewMock(price *big.Int) *Mock {
	if price == nil {
		price = big.NewInt(1000)
	}
	return &Mock{Price: price}
}

// QuotePrice returns the configured price
func (m *Mock) QuotePrice(ctx context.Context, callbackGasLimit uint32, numWords uint32) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	return new(big.Int).Set(m.Price), nil
}

// RequestRandomness records the request and returns the next id
func (m *Mock) RequestRandomness(ctx context.Context, callbackGasLimit uint32, requestConfirmations uint16, numWords uint32, extraArgs []byte, payment *big.Int) (uint64, error) {
	m.mu.Lock()
	if m.RequestErr != nil {
		err := m.RequestErr
		m.mu.Unlock()
		return 0, err
	}
	if len(extraArgs) != ExtraArgsLen {
		m.mu.Unlock()
		return 0, errors.New("malformed extraArgs payload")
	}
	if payment == nil || payment.Cmp(m.Price) < 0 {
		m.mu.Unlock()
		return 0, errors.New("payment below quoted price")
	}
	m.nextID++
	id := m.nextID
	m.LastExtraArgs = append([]byte(nil), extraArgs...)
	m.LastPayment = new(big.Int).Set(payment)
	fulfill := m.FulfillFunc
	m.mu.Unlock()

	if fulfill != nil {
		fulfill(id)
	}
	return id, nil
}
