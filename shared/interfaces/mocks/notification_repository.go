package mocks

import (
	"context"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	_ interfaces.NotificationRepository     = (*NotificationRepository)(nil)
	_ interfaces.NotificationEventPublisher = (*NotificationEventPublisher)(nil)
)

// NotificationRepository is a mock type for the NotificationRepository type
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if n := args.Get(0); n != nil {
		return n.(*models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if n := args.Get(0); n != nil {
		return n.([]models.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// NotificationEventPublisher is a mock type for the NotificationEventPublisher type
type NotificationEventPublisher struct {
	mock.Mock
}

func (m *NotificationEventPublisher) PublishNotificationEvent(ctx context.Context, event models.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
