package database

import (
	"context"
	"errors"
	"fmt"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.NotificationRepository = (*pgNotificationRepository)(nil)

const notificationColumns = `id, user_id, message, type, data, read, created_at`

type pgNotificationRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgNotificationRepository creates a new PostgreSQL-backed NotificationRepository.
func NewPgNotificationRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.NotificationRepository {
	return &pgNotificationRepository{
		db:     db,
		logger: logger.Named("PgNotificationRepo"),
	}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	query := `INSERT INTO notifications (id, user_id, message, type, data) VALUES ($1, $2, $3, $4, $5)
		RETURNING read, created_at`
	err := r.db.QueryRow(ctx, query, n.ID, n.UserID, n.Message, n.Type, n.Data).Scan(&n.Read, &n.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.String("userID", n.UserID.String()), zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}
	r.logger.Debug("Notification created", zap.String("notificationID", n.ID.String()), zap.String("userID", n.UserID.String()))
	return nil
}

func (r *pgNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	n := &models.Notification{}
	if err := pgxscan.Get(ctx, r.db, n, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotificationNotFound
		}
		r.logger.Error("Failed to get notification", zap.String("notificationID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *pgNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`
	var list []models.Notification
	if err := pgxscan.Select(ctx, r.db, &list, query, userID, limit); err != nil {
		r.logger.Error("Failed to list notifications", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

// MarkRead идемпотентен: повторная отметка не ошибка.
func (r *pgNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.String("notificationID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotificationNotFound
	}
	return nil
}
