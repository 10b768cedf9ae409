package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendRejectionNotice(ctx context.Context, toEmail, toName, documentName, reason string) error {
	args := m.Called(ctx, toEmail, toName, documentName, reason)
	return args.Error(0)
}

func (m *MockEmailSender) SendExpiryNotice(ctx context.Context, toEmail, toName, documentName string, daysLeft int) error {
	args := m.Called(ctx, toEmail, toName, documentName, daysLeft)
	return args.Error(0)
}
