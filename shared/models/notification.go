package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// NotificationTypeContribution - новый вклад в историю пользователя.
	NotificationTypeContribution = "contribution"

	// NotificationListLimit - сколько последних уведомлений отдается в списке.
	NotificationListLimit = 50
)

// Notification is a message in a user's notification log.
type Notification struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Message   string         `json:"message" db:"message"`
	Type      string         `json:"type" db:"type"`
	Data      map[string]any `json:"data" db:"data"`
	Read      bool           `json:"read" db:"read"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// NotificationEvent is published to the broker after a notification is stored.
type NotificationEvent struct {
	NotificationID string         `json:"notification_id"`
	UserID         string         `json:"user_id"`
	Type           string         `json:"type"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data,omitempty"`
}
