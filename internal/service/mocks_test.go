package service

import (
	"context"
	"errors"
	"sync"

	"booking-service/internal/account"
	"booking-service/internal/fare"
	"booking-service/internal/pricing"
)

var errBackendDown = errors.New("backend unavailable")

// MockPricingClient implements pricing.PricingClient for testing
type MockPricingClient struct {
	mu     sync.Mutex
	quote  *pricing.Quote
	err    error
	calls  int
	routes []fare.RouteQuery
}

func NewMockPricingClient() *MockPricingClient {
	return &MockPricingClient{err: errBackendDown}
}

func (m *MockPricingClient) SetQuote(quote *pricing.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quote = quote
	m.err = nil
}

func (m *MockPricingClient) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quote = nil
	m.err = err
}

func (m *MockPricingClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockPricingClient) GetQuote(ctx context.Context, route fare.RouteQuery) (*pricing.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.routes = append(m.routes, route)
	if m.err != nil {
		return nil, m.err
	}
	quote := *m.quote
	return &quote, nil
}

// MockDistanceProvider implements distance.Provider for testing
type MockDistanceProvider struct {
	distances map[string]float64
}

func (m *MockDistanceProvider) DistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	if km, ok := m.distances[origin+"|"+destination]; ok {
		return km, nil
	}
	return 0, errors.New("no route")
}

// MockAccountClient implements account.AccountClient for testing
type MockAccountClient struct {
	identity *account.Identity
	err      error
}

func (m *MockAccountClient) Register(ctx context.Context, req account.RegistrationRequest) (*account.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.identity, nil
}

func (m *MockAccountClient) Login(ctx context.Context, username, password string) (*account.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.identity, nil
}
