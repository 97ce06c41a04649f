package interfaces

import (
	"context"

	"story-server/shared/models"

	"github.com/google/uuid"
)

//go:generate mockery --name NotificationRepository --output ./mocks --outpkg mocks
//go:generate mockery --name NotificationEventPublisher --output ./mocks --outpkg mocks

// NotificationRepository defines the append-only notification log.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	// GetByID returns models.ErrNotificationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	// ListByUser returns the newest notifications first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	// MarkRead is idempotent. Returns models.ErrNotificationNotFound for unknown ids.
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// NotificationEventPublisher отправляет событие о новом уведомлении во внешнюю шину.
type NotificationEventPublisher interface {
	PublishNotificationEvent(ctx context.Context, event models.NotificationEvent) error
}
