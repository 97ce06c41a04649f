package service

import (
	"context"
	"sync"
	"time"

	"story-server/internal/config"
	"story-server/shared/models"

	"github.com/google/uuid"
)

const testPepper = "test-pepper"

func testConfig() *config.Config {
	return &config.Config{
		PasswordPepper: testPepper,
		AccessTokenTTL: time.Hour,
	}
}

type stubSigner struct {
	err error
}

func (s stubSigner) SignToken(userID uuid.UUID, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + userID.String(), nil
}

type sentNotification struct {
	UserID  uuid.UUID
	Type    string
	Message string
	Data    map[string]any
}

// recordingNotifier запоминает вызовы Notify.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, notificationType, message string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Type: notificationType, Message: message, Data: data})
}

func (r *recordingNotifier) List(context.Context, uuid.UUID, uuid.UUID) ([]models.Notification, error) {
	return nil, nil
}

func (r *recordingNotifier) Get(context.Context, uuid.UUID, uuid.UUID) (*models.Notification, error) {
	return nil, models.ErrNotificationNotFound
}

func (r *recordingNotifier) MarkRead(context.Context, uuid.UUID, uuid.UUID) (*models.Notification, error) {
	return nil, models.ErrNotificationNotFound
}
