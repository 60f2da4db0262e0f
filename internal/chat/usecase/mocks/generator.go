package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	chatDomain "github.com/allisson/chatapi/internal/chat/domain"
)

// MockGenerator is a mock implementation of Generator for testing. Tests
// drive the streaming path by setting Chunks, which are passed to the emit
// callback before the expectation's return values apply.
type MockGenerator struct {
	mock.Mock

	// Chunks are emitted in order on each GenerateStream call.
	Chunks []string
}

// GenerateStream mocks the GenerateStream method of Generator.
func (m *MockGenerator) GenerateStream(ctx context.Context, model string, history []chatDomain.Message, message string, emit func(chunk string) error) (string, error) {
	args := m.Called(ctx, model, history, message, emit)

	for _, chunk := range m.Chunks {
		if err := emit(chunk); err != nil {
			return "", err
		}
	}
	return args.String(0), args.Error(1)
}

// GenerateGrounded mocks the GenerateGrounded method of Generator.
func (m *MockGenerator) GenerateGrounded(ctx context.Context, model string, history []chatDomain.Message, message string, enableSearch bool) (chatDomain.GenerationResult, error) {
	args := m.Called(ctx, model, history, message, enableSearch)
	return args.Get(0).(chatDomain.GenerationResult), args.Error(1)
}

// GenerateTitle mocks the GenerateTitle method of Generator.
func (m *MockGenerator) GenerateTitle(ctx context.Context, firstMessage string) string {
	args := m.Called(ctx, firstMessage)
	return args.String(0)
}

// ListModels mocks the ListModels method of Generator.
func (m *MockGenerator) ListModels(ctx context.Context) []chatDomain.Model {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]chatDomain.Model)
}
