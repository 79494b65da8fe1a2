package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradus/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSetSubmitted(ctx context.Context, toEmail, toName, groupName string, setNumber int) error {
	args := m.Called(ctx, toEmail, toName, groupName, setNumber)
	return args.Error(0)
}

func (m *MockEmailSender) SendTopicDecision(ctx context.Context, toEmail, toName, topicTitle string, stage domain.ReviewStage, status domain.DecisionStatus, notes string) error {
	args := m.Called(ctx, toEmail, toName, topicTitle, stage, status, notes)
	return args.Error(0)
}
