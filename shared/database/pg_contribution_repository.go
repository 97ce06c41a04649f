package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var _ interfaces.ContributionRepository = (*pgContributionRepository)(nil)

const contributionSelect = `SELECT c.id, c.content, c.author_id, c.story_id, c.status,
		c.relevance, c.grammar, c.creativity, c.total_score, c.feedback, c.created_at, c.updated_at,
		u.name AS author_name, u.username AS author_username, u.profile_picture AS author_profile_picture,
		s.title AS story_title
	FROM contributions c
	JOIN users u ON u.id = c.author_id
	JOIN stories s ON s.id = c.story_id`

// contributionRow - плоская строка выборки, оценка лежит в nullable колонках.
type contributionRow struct {
	ID                   uuid.UUID `db:"id"`
	Content              string    `db:"content"`
	AuthorID             uuid.UUID `db:"author_id"`
	StoryID              uuid.UUID `db:"story_id"`
	Status               string    `db:"status"`
	Relevance            *int      `db:"relevance"`
	Grammar              *int      `db:"grammar"`
	Creativity           *int      `db:"creativity"`
	TotalScore           *int      `db:"total_score"`
	Feedback             *string   `db:"feedback"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
	AuthorName           string    `db:"author_name"`
	AuthorUsername       string    `db:"author_username"`
	AuthorProfilePicture string    `db:"author_profile_picture"`
	StoryTitle           string    `db:"story_title"`
}

func (row *contributionRow) toContribution() models.Contribution {
	c := models.Contribution{
		ID:        row.ID,
		Content:   row.Content,
		AuthorID:  row.AuthorID,
		StoryID:   row.StoryID,
		Status:    models.ContributionStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Relevance != nil && row.Grammar != nil && row.Creativity != nil {
		eval := &models.Evaluation{
			Relevance:  *row.Relevance,
			Grammar:    *row.Grammar,
			Creativity: *row.Creativity,
		}
		eval.TotalScore = eval.Sum()
		if row.TotalScore != nil {
			eval.TotalScore = *row.TotalScore
		}
		if row.Feedback != nil {
			eval.Feedback = *row.Feedback
		}
		c.Evaluation = eval
	}
	return c
}

func (row *contributionRow) toDetails() models.ContributionDetails {
	return models.ContributionDetails{
		Contribution: row.toContribution(),
		Author: models.UserSummary{
			ID:             row.AuthorID,
			Name:           row.AuthorName,
			Username:       row.AuthorUsername,
			ProfilePicture: row.AuthorProfilePicture,
		},
		StoryTitle: row.StoryTitle,
	}
}

type pgContributionRepository struct {
	db     interfaces.TxStarter
	logger *zap.Logger
}

// NewPgContributionRepository creates a new PostgreSQL-backed ContributionRepository.
// db must be able to begin transactions (a pool or an outer transaction).
func NewPgContributionRepository(db interfaces.TxStarter, logger *zap.Logger) interfaces.ContributionRepository {
	return &pgContributionRepository{
		db:     db,
		logger: logger.Named("PgContributionRepo"),
	}
}

// CreateAndAttach вставляет вклад и добавляет его id в конец списка истории в одной транзакции.
func (r *pgContributionRepository) CreateAndAttach(ctx context.Context, c *models.Contribution) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var relevance, grammar, creativity *int
	var feedback *string
	if c.Evaluation != nil {
		relevance, grammar, creativity = &c.Evaluation.Relevance, &c.Evaluation.Grammar, &c.Evaluation.Creativity
		feedback = &c.Evaluation.Feedback
	}
	log := r.logger.With(zap.String("contributionID", c.ID.String()), zap.String("storyID", c.StoryID.String()))

	err := withTransaction(ctx, r.db, r.logger, func(tx interfaces.DBTX) error {
		insert := `INSERT INTO contributions (id, content, author_id, story_id, status, relevance, grammar, creativity, feedback)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING total_score, created_at, updated_at`
		var total *int
		err := tx.QueryRow(ctx, insert,
			c.ID, c.Content, c.AuthorID, c.StoryID, string(c.Status), relevance, grammar, creativity, feedback,
		).Scan(&total, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" && pgErr.ConstraintName == "contributions_story_id_fkey" {
				return models.ErrStoryNotFound
			}
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
		if c.Evaluation != nil && total != nil {
			c.Evaluation.TotalScore = *total
		}

		// Атомарное добавление в конец массива, без чтения строки истории
		appendQuery := `UPDATE stories SET contribution_ids = array_append(contribution_ids, $2), updated_at = NOW()
			WHERE id = $1 AND NOT ($2 = ANY(contribution_ids))`
		tag, err := tx.Exec(ctx, appendQuery, c.StoryID, c.ID)
		if err != nil {
			return fmt.Errorf("failed to attach contribution to story: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrStoryNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrStoryNotFound) {
			log.Warn("Story disappeared while submitting contribution")
			return err
		}
		log.Error("Failed to create contribution", zap.Error(err))
		return err
	}
	log.Info("Contribution created and attached")
	return nil
}

func (r *pgContributionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contribution, error) {
	query := `SELECT c.id, c.content, c.author_id, c.story_id, c.status,
			c.relevance, c.grammar, c.creativity, c.total_score, c.feedback, c.created_at, c.updated_at
		FROM contributions c WHERE c.id = $1`
	var row contributionRow
	if err := pgxscan.Get(ctx, r.db, &row, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrContributionNotFound
		}
		r.logger.Error("Failed to get contribution", zap.String("contributionID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	c := row.toContribution()
	return &c, nil
}

// DeleteAndDetach сначала убирает ссылку из истории, затем удаляет строку, в одной транзакции.
func (r *pgContributionRepository) DeleteAndDetach(ctx context.Context, c *models.Contribution) error {
	log := r.logger.With(zap.String("contributionID", c.ID.String()), zap.String("storyID", c.StoryID.String()))
	err := withTransaction(ctx, r.db, r.logger, func(tx interfaces.DBTX) error {
		detach := `UPDATE stories SET contribution_ids = array_remove(contribution_ids, $2), updated_at = NOW()
			WHERE id = $1`
		if _, err := tx.Exec(ctx, detach, c.StoryID, c.ID); err != nil {
			return fmt.Errorf("failed to detach contribution: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM contributions WHERE id = $1`, c.ID)
		if err != nil {
			return fmt.Errorf("failed to delete contribution: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrContributionNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrContributionNotFound) {
			log.Error("Failed to delete contribution", zap.Error(err))
		}
		return err
	}
	log.Info("Contribution deleted and detached")
	return nil
}

func (r *pgContributionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContributionStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE contributions SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		r.logger.Error("Failed to update contribution status", zap.String("contributionID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to update contribution status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrContributionNotFound
	}
	return nil
}

// ListByStory возвращает вклады в порядке списка истории.
func (r *pgContributionRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.ContributionDetails, error) {
	query := contributionSelect + `
		WHERE c.story_id = $1 AND c.id = ANY(s.contribution_ids)
		ORDER BY array_position(s.contribution_ids, c.id)`
	return r.selectDetails(ctx, query, storyID)
}

// ListByAuthor отдает вклады автора только из историй, видимых viewerID.
func (r *pgContributionRepository) ListByAuthor(ctx context.Context, authorID, viewerID uuid.UUID) ([]models.ContributionDetails, error) {
	query := contributionSelect + `
		WHERE c.author_id = $1
		  AND (s.is_private = FALSE OR s.owner_id = $2 OR $2 = ANY(s.contributor_ids))
		ORDER BY c.created_at DESC, c.id DESC`
	return r.selectDetails(ctx, query, authorID, viewerID)
}

func (r *pgContributionRepository) List(ctx context.Context, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]models.ContributionDetails, error) {
	if afterID == uuid.Nil {
		query := contributionSelect + `
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $1`
		return r.selectDetails(ctx, query, limit)
	}
	query := contributionSelect + `
		WHERE (c.created_at, c.id) < ($1, $2)
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $3`
	return r.selectDetails(ctx, query, afterCreatedAt, afterID, limit)
}

func (r *pgContributionRepository) selectDetails(ctx context.Context, query string, args ...any) ([]models.ContributionDetails, error) {
	var rows []contributionRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		r.logger.Error("Failed to list contributions", zap.Error(err))
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	details := make([]models.ContributionDetails, 0, len(rows))
	for i := range rows {
		details = append(details, rows[i].toDetails())
	}
	return details, nil
}

// Leaderboard считает суммы оценок по авторам. Учитываются только оцененные вклады в публичных историях.
func (r *pgContributionRepository) Leaderboard(ctx context.Context, since *time.Time, limit int) ([]models.LeaderboardEntry, error) {
	query := `SELECT u.id AS user_id, u.name, u.username, u.profile_picture, u.points, u.badges,
			SUM(c.total_score)::bigint AS total_score,
			COUNT(c.id) AS contributions,
			AVG(c.total_score)::double precision AS avg_score
		FROM contributions c
		JOIN users u ON u.id = c.author_id
		JOIN stories s ON s.id = c.story_id
		WHERE c.total_score IS NOT NULL
			AND s.is_private = FALSE
			AND ($1::timestamptz IS NULL OR c.created_at >= $1)
		GROUP BY u.id
		ORDER BY total_score DESC, contributions DESC, u.username ASC
		LIMIT $2`
	var entries []models.LeaderboardEntry
	if err := pgxscan.Select(ctx, r.db, &entries, query, since, limit); err != nil {
		r.logger.Error("Failed to build leaderboard", zap.Error(err))
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	return entries, nil
}
