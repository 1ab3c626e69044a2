package model

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Video represents an uploaded video and its metadata.
type Video struct {
	ID          int64          `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Hashtags    pq.StringArray `db:"hashtags" json:"hashtags"`
	FileURL     string         `db:"file_url" json:"file_url"`
	ThumbURL    string         `db:"thumb_url" json:"thumb_url"`
	OwnerID     int64          `db:"owner_id" json:"owner_id"`
	Views       int            `db:"views" json:"views"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`

	// Joined fields
	Owner    *UserSummary `json:"owner,omitempty"`
	Comments []Comment    `json:"comments,omitempty"`
}

// UserSummary is the lightweight owner representation joined onto videos and
// comments.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	Name      string  `db:"name" json:"name"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

// UploadVideoRequest carries the upload form fields plus the stored file
// locations produced by the upload middleware.
type UploadVideoRequest struct {
	Title       string
	Description string
	Hashtags    string
	FileURL     string
	ThumbURL    string
}

// EditVideoRequest carries the edit form fields.
type EditVideoRequest struct {
	Title       string
	Description string
	Hashtags    string
}

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrNotVideoOwner = errors.New("not the owner of this video")
)

// FormatHashtags normalizes a raw comma-separated hashtag string: split on
// commas, trim whitespace, drop empty segments, prefix "#" unless already
// present, and deduplicate preserving input order. Idempotent.
func FormatHashtags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
