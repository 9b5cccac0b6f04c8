// Package mocks provides mock implementations of the derivation use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDeriveUseCase is a mock implementation of DeriveUseCase for testing.
type MockDeriveUseCase struct {
	mock.Mock
}

// NewMockDeriveUseCase creates a MockDeriveUseCase whose expectations are asserted when
// the test finishes.
func NewMockDeriveUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDeriveUseCase {
	m := &MockDeriveUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Derive mocks the Derive method of DeriveUseCase.
func (m *MockDeriveUseCase) Derive(ctx context.Context, info []byte, length int) ([]byte, error) {
	args := m.Called(ctx, info, length)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// DeriveHex mocks the DeriveHex method of DeriveUseCase.
func (m *MockDeriveUseCase) DeriveHex(ctx context.Context, info []byte, length int) (string, error) {
	args := m.Called(ctx, info, length)
	return args.String(0), args.Error(1)
}

// DeriveUUID mocks the DeriveUUID method of DeriveUseCase.
func (m *MockDeriveUseCase) DeriveUUID(ctx context.Context, info []byte) (string, error) {
	args := m.Called(ctx, info)
	return args.String(0), args.Error(1)
}
