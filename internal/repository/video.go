package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"spongetube/internal/model"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

// videoWithOwnerQuery joins the owner summary onto each video row so listing
// pages render without an extra query per video.
const videoWithOwnerQuery = `
	SELECT v.id, v.title, v.description, v.hashtags, v.file_url, v.thumb_url,
	       v.owner_id, v.views, v.created_at, v.updated_at,
	       u.id AS "owner.id", u.username AS "owner.username",
	       u.name AS "owner.name", u.avatar_url AS "owner.avatar_url"
	FROM videos v
	JOIN users u ON u.id = v.owner_id
`

// Create inserts a new video owned by an existing user.
func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	query := `
		INSERT INTO videos (title, description, hashtags, file_url, thumb_url, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, views, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		v.Title,
		v.Description,
		pq.Array([]string(v.Hashtags)),
		v.FileURL,
		v.ThumbURL,
		v.OwnerID,
	)

	if err := row.Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	query := videoWithOwnerQuery + ` WHERE v.id = $1`

	var v model.Video
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &v, nil
}

func (r *videoRepository) ListAll(ctx context.Context) ([]model.Video, error) {
	query := videoWithOwnerQuery + ` ORDER BY v.created_at DESC`

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	return videos, nil
}

func (r *videoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Video, error) {
	query := videoWithOwnerQuery + ` WHERE v.owner_id = $1 ORDER BY v.created_at DESC`

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list videos by owner: %w", err)
	}

	return videos, nil
}

func (r *videoRepository) Update(ctx context.Context, id int64, title, description string, hashtags []string) error {
	query := `
		UPDATE videos
		SET title = $1, description = $2, hashtags = $3, updated_at = NOW()
		WHERE id = $4
	`

	res, err := r.db.ExecContext(ctx, query, title, description, pq.Array(hashtags), id)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrVideoNotFound
	}

	return nil
}

func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM videos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrVideoNotFound
	}

	return nil
}

// SearchByTitle matches titles case-insensitively on a substring of the
// keyword, newest first.
func (r *videoRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Video, error) {
	query := videoWithOwnerQuery + ` WHERE v.title ILIKE $1 ORDER BY v.created_at DESC`

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, "%"+keyword+"%"); err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	return videos, nil
}

// IncrementViews bumps the counter atomically in the database, so concurrent
// views never lose an increment.
func (r *videoRepository) IncrementViews(ctx context.Context, id int64) error {
	query := `UPDATE videos SET views = views + 1 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrVideoNotFound
	}

	return nil
}

func (r *videoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}

	return exists, nil
}
