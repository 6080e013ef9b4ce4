package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"moonlight/pkg/contracts/events"
)

// MockBroadcaster is a mock for the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastDataUpdate(ctx context.Context, update events.DataUpdate) int {
	args := m.Called(ctx, update)
	return args.Int(0)
}

func (m *MockBroadcaster) ClientCount() int {
	args := m.Called()
	return args.Int(0)
}
