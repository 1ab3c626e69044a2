package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"spongetube/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetLocalByUsername matches only non-social accounts (local password login).
	GetLocalByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// The *Except variants ignore the given user id, for edit-time collision checks.
	ExistsByEmailExcept(ctx context.Context, email string, exceptID int64) (bool, error)
	ExistsByUsernameExcept(ctx context.Context, username string, exceptID int64) (bool, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHashed string) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	GetByID(ctx context.Context, id int64) (*model.Video, error)
	// ListAll returns all videos newest first with owner joined.
	ListAll(ctx context.Context) ([]model.Video, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Video, error)
	Update(ctx context.Context, id int64, title, description string, hashtags []string) error
	Delete(ctx context.Context, id int64) error
	// SearchByTitle performs a case-insensitive substring match on titles.
	SearchByTitle(ctx context.Context, keyword string) ([]model.Video, error)
	// IncrementViews atomically bumps the view counter by one.
	IncrementViews(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, videoID, ownerID int64, text string) (*model.Comment, error)
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	Delete(ctx context.Context, tx *sqlx.Tx, id int64) error
	// ListByVideoID returns a video's comments oldest first with owner joined.
	ListByVideoID(ctx context.Context, videoID int64) ([]model.Comment, error)
}
