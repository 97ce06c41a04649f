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

var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

const storyColumns = `s.id, s.title, s.genre, s.prompt, s.is_private, s.owner_id, s.contributor_ids, s.contribution_ids, s.created_at, s.updated_at`

type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a new PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	if story.ContributorIDs == nil {
		story.ContributorIDs = []uuid.UUID{}
	}
	if story.ContributionIDs == nil {
		story.ContributionIDs = []uuid.UUID{}
	}
	query := `INSERT INTO stories (id, title, genre, prompt, is_private, owner_id, contributor_ids, contribution_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("storyID", story.ID.String()))
	err := r.db.QueryRow(ctx, query,
		story.ID, story.Title, string(story.Genre), story.Prompt, story.IsPrivate, story.OwnerID,
		story.ContributorIDs, story.ContributionIDs,
	).Scan(&story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create story", zap.String("ownerID", story.OwnerID.String()), zap.Error(err))
		return fmt.Errorf("failed to create story: %w", err)
	}
	r.logger.Info("Story created", zap.String("storyID", story.ID.String()), zap.String("ownerID", story.OwnerID.String()))
	return nil
}

func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories s WHERE s.id = $1`
	story := &models.Story{}
	if err := pgxscan.Get(ctx, r.db, story, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Story not found", zap.String("storyID", id.String()))
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story", zap.String("storyID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return story, nil
}

// Update не трогает contribution_ids: список вкладов меняют только
// CreateAndAttach и DeleteAndDetach, иначе параллельная запись потеряет ссылки.
func (r *pgStoryRepository) Update(ctx context.Context, story *models.Story) error {
	query := `UPDATE stories SET title = $2, genre = $3, prompt = $4, is_private = $5, contributor_ids = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("storyID", story.ID.String()))
	err := r.db.QueryRow(ctx, query,
		story.ID, story.Title, string(story.Genre), story.Prompt, story.IsPrivate, story.ContributorIDs,
	).Scan(&story.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrStoryNotFound
		}
		r.logger.Error("Failed to update story", zap.String("storyID", story.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to update story: %w", err)
	}
	return nil
}

// Delete удаляет историю, вклады удаляются каскадом (ON DELETE CASCADE).
func (r *pgStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete story", zap.String("storyID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStoryNotFound
	}
	r.logger.Info("Story deleted", zap.String("storyID", id.String()))
	return nil
}

func (r *pgStoryRepository) ListVisible(ctx context.Context, caller uuid.UUID) ([]models.StoryListItem, error) {
	query := `SELECT ` + storyColumns + `,
			u.id AS "owner.id", u.name AS "owner.name", u.username AS "owner.username",
			u.profile_picture AS "owner.profile_picture"
		FROM stories s
		JOIN users u ON u.id = s.owner_id
		WHERE s.is_private = FALSE OR s.owner_id = $1 OR $1 = ANY(s.contributor_ids)
		ORDER BY s.created_at DESC, s.id DESC`
	var items []models.StoryListItem
	if err := pgxscan.Select(ctx, r.db, &items, query, caller); err != nil {
		r.logger.Error("Failed to list visible stories", zap.String("caller", caller.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	if items == nil {
		items = []models.StoryListItem{}
	}
	return items, nil
}

func (r *pgStoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories s WHERE s.owner_id = $1 ORDER BY s.created_at DESC, s.id DESC`
	var stories []models.Story
	if err := pgxscan.Select(ctx, r.db, &stories, query, ownerID); err != nil {
		r.logger.Error("Failed to list stories by owner", zap.String("ownerID", ownerID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list stories by owner: %w", err)
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return stories, nil
}
