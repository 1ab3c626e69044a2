package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spongetube/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment. Runs inside the caller's transaction so the
// insert and any related writes commit together.
func (r *commentRepository) Create(ctx context.Context, tx *sqlx.Tx, videoID, ownerID int64, text string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (video_id, owner_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, video_id, owner_id, text, created_at
	`
	var comment model.Comment
	err := tx.GetContext(ctx, &comment, query, videoID, ownerID, text)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	query := `SELECT id, video_id, owner_id, text, created_at FROM comments WHERE id = $1`

	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment inside the caller's transaction.
func (r *commentRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// ListByVideoID returns a video's comments oldest first with the owner
// summary joined for rendering.
func (r *commentRepository) ListByVideoID(ctx context.Context, videoID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.video_id, c.owner_id, c.text, c.created_at,
		       u.id AS "owner.id", u.username AS "owner.username",
		       u.name AS "owner.name", u.avatar_url AS "owner.avatar_url"
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at ASC
	`

	comments := []model.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, videoID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}
