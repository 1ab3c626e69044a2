package service

import (
	"context"
	"log"

	"spongetube/internal/model"
	"spongetube/internal/repository"
)

// VideoService handles business logic for the video catalog.
type VideoService struct {
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
}

func NewVideoService(videoRepo repository.VideoRepository, commentRepo repository.CommentRepository) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		commentRepo: commentRepo,
	}
}

// Home returns all videos newest first with owners for the home page.
func (s *VideoService) Home(ctx context.Context) ([]model.Video, error) {
	return s.videoRepo.ListAll(ctx)
}

// Watch returns a single video with owner and comments expanded.
func (s *VideoService) Watch(ctx context.Context, id int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByVideoID(ctx, id)
	if err != nil {
		return nil, err
	}
	video.Comments = comments

	return video, nil
}

// GetOwned loads a video and verifies the requester owns it. Used by the
// edit and delete flows.
func (s *VideoService) GetOwned(ctx context.Context, id, requesterID int64) (*model.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != requesterID {
		return nil, model.ErrNotVideoOwner
	}
	return video, nil
}

// Edit updates title, description and normalized hashtags. Owner-only.
func (s *VideoService) Edit(ctx context.Context, id, requesterID int64, req *model.EditVideoRequest) error {
	if _, err := s.GetOwned(ctx, id, requesterID); err != nil {
		return err
	}

	return s.videoRepo.Update(ctx, id, req.Title, req.Description, model.FormatHashtags(req.Hashtags))
}

// Upload creates a video owned by the current user, referencing the stored
// file and thumbnail paths.
func (s *VideoService) Upload(ctx context.Context, ownerID int64, req *model.UploadVideoRequest) (*model.Video, error) {
	video := &model.Video{
		Title:       req.Title,
		Description: req.Description,
		Hashtags:    model.FormatHashtags(req.Hashtags),
		FileURL:     req.FileURL,
		ThumbURL:    req.ThumbURL,
		OwnerID:     ownerID,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}

	log.Printf("[VideoService] User %d uploaded video %d", ownerID, video.ID)
	return video, nil
}

// Delete removes a video. Owner-only.
func (s *VideoService) Delete(ctx context.Context, id, requesterID int64) error {
	if _, err := s.GetOwned(ctx, id, requesterID); err != nil {
		return err
	}

	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("[VideoService] User %d deleted video %d", requesterID, id)
	return nil
}

// Search matches video titles case-insensitively. An empty keyword yields an
// empty result set, not the whole catalog.
func (s *VideoService) Search(ctx context.Context, keyword string) ([]model.Video, error) {
	if keyword == "" {
		return []model.Video{}, nil
	}
	return s.videoRepo.SearchByTitle(ctx, keyword)
}

// RegisterView bumps the view counter by exactly one.
func (s *VideoService) RegisterView(ctx context.Context, id int64) error {
	return s.videoRepo.IncrementViews(ctx, id)
}
