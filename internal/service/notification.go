package service

import (
	"context"
	"fmt"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService is the notification sink plus the read side of a user's log.
type NotificationService interface {
	// Notify stores a notification and publishes an event about it.
	// Failures are logged and never returned, the caller's operation must not depend on them.
	Notify(ctx context.Context, userID uuid.UUID, notificationType, message string, data map[string]any)
	List(ctx context.Context, callerID, userID uuid.UUID) ([]models.Notification, error)
	Get(ctx context.Context, callerID, notificationID uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) (*models.Notification, error)
}

var _ NotificationService = (*notificationServiceImpl)(nil)

type notificationServiceImpl struct {
	repo      interfaces.NotificationRepository
	publisher interfaces.NotificationEventPublisher
	logger    *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo interfaces.NotificationRepository, publisher interfaces.NotificationEventPublisher, logger *zap.Logger) NotificationService {
	return &notificationServiceImpl{
		repo:      repo,
		publisher: publisher,
		logger:    logger.Named("NotificationService"),
	}
}

func (s *notificationServiceImpl) Notify(ctx context.Context, userID uuid.UUID, notificationType, message string, data map[string]any) {
	log := s.logger.With(zap.Stringer("userID", userID), zap.String("type", notificationType))

	n := &models.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		notificationsTotal.WithLabelValues("store", "failure").Inc()
		log.Error("Failed to store notification", zap.Error(err))
		return
	}
	notificationsTotal.WithLabelValues("store", "success").Inc()

	event := models.NotificationEvent{
		NotificationID: n.ID.String(),
		UserID:         userID.String(),
		Type:           notificationType,
		Message:        message,
		Data:           data,
	}
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		notificationsTotal.WithLabelValues("publish", "failure").Inc()
		log.Error("Failed to publish notification event", zap.Stringer("notificationID", n.ID), zap.Error(err))
		return
	}
	notificationsTotal.WithLabelValues("publish", "success").Inc()
	log.Debug("Notification delivered", zap.Stringer("notificationID", n.ID))
}

// List returns the newest notifications of userID. Only the owner may read them.
func (s *notificationServiceImpl) List(ctx context.Context, callerID, userID uuid.UUID) ([]models.Notification, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: cannot read notifications of another user", models.ErrForbidden)
	}
	list, err := s.repo.ListByUser(ctx, userID, models.NotificationListLimit)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *notificationServiceImpl) Get(ctx context.Context, callerID, notificationID uuid.UUID) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != callerID {
		return nil, fmt.Errorf("%w: notification belongs to another user", models.ErrForbidden)
	}
	return n, nil
}

// MarkRead flags the notification as read. Repeated calls are no-ops.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, callerID, notificationID uuid.UUID) (*models.Notification, error) {
	n, err := s.Get(ctx, callerID, notificationID)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}
