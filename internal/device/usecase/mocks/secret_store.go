// Package mocks provides mock implementations of the device use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/devicekey/internal/device/domain"
)

// MockSecretStore is a mock implementation of SecretStore for testing.
type MockSecretStore struct {
	mock.Mock
}

// NewMockSecretStore creates a MockSecretStore whose expectations are asserted when the
// test finishes.
func NewMockSecretStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSecretStore {
	m := &MockSecretStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Init mocks the Init method of SecretStore.
func (m *MockSecretStore) Init(ctx context.Context) (domain.InitOutcome, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.InitOutcome), args.Error(1)
}

// Status mocks the Status method of SecretStore.
func (m *MockSecretStore) Status(ctx context.Context) (domain.RegionStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RegionStatus), args.Error(1)
}

// Survey mocks the Survey method of SecretStore.
func (m *MockSecretStore) Survey(ctx context.Context) []domain.RegionReport {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.RegionReport)
}

// Check mocks the Check method of SecretStore.
func (m *MockSecretStore) Check(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// SecretMaterial mocks the SecretMaterial method of SecretStore.
func (m *MockSecretStore) SecretMaterial(ctx context.Context) (*domain.Secret, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Secret), args.Error(1)
}

// Info mocks the Info method of SecretStore.
func (m *MockSecretStore) Info() domain.StoreInfo {
	args := m.Called()
	return args.Get(0).(domain.StoreInfo)
}

// Close mocks the Close method of SecretStore.
func (m *MockSecretStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
