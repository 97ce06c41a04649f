package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgUserRepository implements UserRepository
var _ interfaces.UserRepository = (*pgUserRepository)(nil)

const userColumns = `id, name, username, email, password_hash, bio, profile_picture, points, badges, created_at, updated_at`

type pgUserRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserRepository creates a new PostgreSQL-backed UserRepository.
func NewPgUserRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{
		db:     db,
		logger: logger.Named("PgUserRepo"),
	}
}

// Create inserts a new user into the database.
func (r *pgUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Badges == nil {
		user.Badges = []string{}
	}
	query := `INSERT INTO users (id, name, username, email, password_hash, bio, profile_picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING points, badges, created_at, updated_at`
	logFields := []zap.Field{zap.String("username", user.Username), zap.String("email", user.Email)}
	r.logger.Debug("Executing query", append(logFields, zap.String("query", query))...)

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash, user.Bio, user.ProfilePicture,
	).Scan(&user.Points, &user.Badges, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			if pgErr.ConstraintName == "users_email_key" {
				r.logger.Warn("Attempted to create duplicate user by email", logFields...)
				return models.ErrEmailAlreadyExists
			}
			r.logger.Warn("Attempted to create duplicate user", append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
			return models.ErrUserAlreadyExists
		}
		r.logger.Error("Failed to create user in postgres", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create user in postgres: %w", err)
	}
	r.logger.Info("User created", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return nil
}

// GetByID retrieves a user by their ID.
func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id, zap.String("id", id.String()))
}

// GetByEmail retrieves a user by their email.
func (r *pgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, strings.ToLower(strings.TrimSpace(email)), zap.String("email", email))
}

func (r *pgUserRepository) getOne(ctx context.Context, query string, arg any, field zap.Field) (*models.User, error) {
	user := &models.User{}
	r.logger.Debug("Executing query", zap.String("query", query), field)
	if err := pgxscan.Get(ctx, r.db, user, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("User not found", field)
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to get user from postgres", zap.Error(err), field)
		return nil, fmt.Errorf("failed to get user from postgres: %w", err)
	}
	return user, nil
}

// GetSummaries returns summaries for existing ids, keeping the order of ids.
func (r *pgUserRepository) GetSummaries(ctx context.Context, ids []uuid.UUID) ([]models.UserSummary, error) {
	if len(ids) == 0 {
		return []models.UserSummary{}, nil
	}
	query := `SELECT u.id, u.name, u.username, u.profile_picture
		FROM unnest($1::uuid[]) WITH ORDINALITY AS req(id, ord)
		JOIN users u ON u.id = req.id
		ORDER BY req.ord`
	var summaries []models.UserSummary
	if err := pgxscan.Select(ctx, r.db, &summaries, query, ids); err != nil {
		r.logger.Error("Failed to get user summaries", zap.Int("count", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("failed to get user summaries: %w", err)
	}
	if summaries == nil {
		summaries = []models.UserSummary{}
	}
	return summaries, nil
}

// UpdateProfile обновляет только переданные поля профиля.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error) {
	query := `UPDATE users SET
			name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			profile_picture = COALESCE($4, profile_picture),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	user := &models.User{}
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("id", id.String()))
	if err := pgxscan.Get(ctx, r.db, user, query, id, update.Name, update.Bio, update.ProfilePicture); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		r.logger.Error("Failed to update user profile", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the password hash.
func (r *pgUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		r.logger.Error("Failed to update password", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// AwardPoints добавляет очки и бейджи одним UPDATE, без read-modify-write.
// Порядок уже выданных бейджей сохраняется, дубликаты не добавляются.
func (r *pgUserRepository) AwardPoints(ctx context.Context, id uuid.UUID, points float64, badges []string) error {
	if badges == nil {
		badges = []string{}
	}
	query := `UPDATE users SET
			points = points + $2,
			badges = badges || ARRAY(
				SELECT DISTINCT b FROM unnest($3::text[]) AS b WHERE NOT (b = ANY(users.badges))
			),
			updated_at = NOW()
		WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("id", id.String()),
		zap.Float64("points", points), zap.Strings("badges", badges))
	tag, err := r.db.Exec(ctx, query, id, points, badges)
	if err != nil {
		r.logger.Error("Failed to award points", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to award points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// SearchByEmail ищет пользователей по подстроке email без учета регистра.
func (r *pgUserRepository) SearchByEmail(ctx context.Context, fragment string, limit int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email ILIKE $1 ORDER BY email LIMIT $2`
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(fragment))) + "%"
	var users []models.User
	if err := pgxscan.Select(ctx, r.db, &users, query, pattern, limit); err != nil {
		r.logger.Error("Failed to search users by email", zap.String("fragment", fragment), zap.Error(err))
		return nil, fmt.Errorf("failed to search users by email: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// escapeLike экранирует метасимволы LIKE (escape-символ по умолчанию - обратный слэш).
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
