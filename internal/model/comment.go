package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	VideoID   int64     `db:"video_id" json:"video_id"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Owner *UserSummary `json:"owner,omitempty"` // Joined field
}

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrTextRequired    = errors.New("comment text is required")
)
