package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"spongetube/internal/model"
	"spongetube/internal/repository"
)

// CommentService handles comment creation and deletion. Writes that must be
// all-or-nothing run inside a database transaction.
type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	db          *sqlx.DB
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, db *sqlx.DB) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		db:          db,
	}
}

// Create adds a comment to a video on behalf of the current user.
func (s *CommentService) Create(ctx context.Context, videoID, userID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.ErrTextRequired
	}

	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("check video exists: %w", err)
	}
	if !exists {
		return nil, model.ErrVideoNotFound
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	comment, err := s.commentRepo.Create(ctx, tx, videoID, userID, text)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[CommentService] User %d commented on video %d", userID, videoID)
	return comment, nil
}

// Delete removes a comment. Only the owner may delete; the removal from the
// video's comment list and the record deletion are a single atomic write.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.OwnerID != userID {
		return model.ErrNotCommentOwner
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.commentRepo.Delete(ctx, tx, commentID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	log.Printf("[CommentService] User %d deleted comment %d from video %d", userID, commentID, comment.VideoID)
	return nil
}
