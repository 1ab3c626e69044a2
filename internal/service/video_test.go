package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"

	"spongetube/internal/model"
)

// mockVideoRepository implements repository.VideoRepository.
type mockVideoRepository struct {
	createFn        func(ctx context.Context, video *model.Video) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Video, error)
	listAllFn       func(ctx context.Context) ([]model.Video, error)
	listByOwnerFn   func(ctx context.Context, ownerID int64) ([]model.Video, error)
	searchByTitleFn func(ctx context.Context, keyword string) ([]model.Video, error)
	existsFn        func(ctx context.Context, id int64) (bool, error)

	updateCalls    []updateCall
	deleteCalls    []int64
	incrementCalls []int64
	searchCalls    []string
}

type updateCall struct {
	ID          int64
	Title       string
	Description string
	Hashtags    []string
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	video.ID = 1
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) ListAll(ctx context.Context) ([]model.Video, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return []model.Video{}, nil
}

func (m *mockVideoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Video, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return []model.Video{}, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, id int64, title, description string, hashtags []string) error {
	m.updateCalls = append(m.updateCalls, updateCall{ID: id, Title: title, Description: description, Hashtags: hashtags})
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	return nil
}

func (m *mockVideoRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Video, error) {
	m.searchCalls = append(m.searchCalls, keyword)
	if m.searchByTitleFn != nil {
		return m.searchByTitleFn(ctx, keyword)
	}
	return []model.Video{}, nil
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, id int64) error {
	m.incrementCalls = append(m.incrementCalls, id)
	return nil
}

func (m *mockVideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return false, nil
}

// mockCommentRepository implements repository.CommentRepository.
type mockCommentRepository struct {
	createFn        func(ctx context.Context, tx *sqlx.Tx, videoID, ownerID int64, text string) (*model.Comment, error)
	listByVideoIDFn func(ctx context.Context, videoID int64) ([]model.Comment, error)
	getByIDFn       func(ctx context.Context, id int64) (*model.Comment, error)
	deleteFn        func(ctx context.Context, tx *sqlx.Tx, id int64) error

	deleteCalls []int64
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, videoID, ownerID int64, text string) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tx, videoID, ownerID, text)
	}
	return &model.Comment{ID: 1, VideoID: videoID, OwnerID: ownerID, Text: text}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, tx *sqlx.Tx, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, id)
	}
	return nil
}

func (m *mockCommentRepository) ListByVideoID(ctx context.Context, videoID int64) ([]model.Comment, error) {
	if m.listByVideoIDFn != nil {
		return m.listByVideoIDFn(ctx, videoID)
	}
	return []model.Comment{}, nil
}

func TestVideoService_Watch_ExpandsComments(t *testing.T) {
	videoRepo := &mockVideoRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Video, error) {
			return &model.Video{ID: id, Title: "cats"}, nil
		},
	}
	commentRepo := &mockCommentRepository{
		listByVideoIDFn: func(ctx context.Context, videoID int64) ([]model.Comment, error) {
			return []model.Comment{{ID: 10, VideoID: videoID, Text: "nice"}}, nil
		},
	}
	svc := NewVideoService(videoRepo, commentRepo)

	video, err := svc.Watch(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(video.Comments) != 1 || video.Comments[0].Text != "nice" {
		t.Errorf("comments not expanded: %+v", video.Comments)
	}
}

func TestVideoService_Watch_NotFound(t *testing.T) {
	svc := NewVideoService(&mockVideoRepository{}, &mockCommentRepository{})

	_, err := svc.Watch(context.Background(), 99)

	if !errors.Is(err, model.ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got: %v", err)
	}
}

func TestVideoService_Edit_NonOwnerRejected(t *testing.T) {
	videoRepo := &mockVideoRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Video, error) {
			return &model.Video{ID: id, OwnerID: 1}, nil
		},
	}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	err := svc.Edit(context.Background(), 5, 2, &model.EditVideoRequest{Title: "hijack"})

	if !errors.Is(err, model.ErrNotVideoOwner) {
		t.Fatalf("expected ErrNotVideoOwner, got: %v", err)
	}
	if len(videoRepo.updateCalls) != 0 {
		t.Error("video must not be updated by a non-owner")
	}
}

func TestVideoService_Edit_NormalizesHashtags(t *testing.T) {
	videoRepo := &mockVideoRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Video, error) {
			return &model.Video{ID: id, OwnerID: 1}, nil
		},
	}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	err := svc.Edit(context.Background(), 5, 1, &model.EditVideoRequest{
		Title:    "t",
		Hashtags: "fun,#travel",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(videoRepo.updateCalls) != 1 {
		t.Fatalf("expected one update, got %d", len(videoRepo.updateCalls))
	}
	want := []string{"#fun", "#travel"}
	if !reflect.DeepEqual(videoRepo.updateCalls[0].Hashtags, want) {
		t.Errorf("hashtags = %v, want %v", videoRepo.updateCalls[0].Hashtags, want)
	}
}

func TestVideoService_Delete_NonOwnerRejected(t *testing.T) {
	videoRepo := &mockVideoRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.Video, error) {
			return &model.Video{ID: id, OwnerID: 1}, nil
		},
	}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	err := svc.Delete(context.Background(), 5, 2)

	if !errors.Is(err, model.ErrNotVideoOwner) {
		t.Fatalf("expected ErrNotVideoOwner, got: %v", err)
	}
	if len(videoRepo.deleteCalls) != 0 {
		t.Error("video must not be deleted by a non-owner")
	}
}

func TestVideoService_Upload_NormalizesHashtags(t *testing.T) {
	var created *model.Video
	videoRepo := &mockVideoRepository{
		createFn: func(ctx context.Context, video *model.Video) error {
			video.ID = 42
			created = video
			return nil
		},
	}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	video, err := svc.Upload(context.Background(), 1, &model.UploadVideoRequest{
		Title:    "trip",
		Hashtags: "fun,#travel",
		FileURL:  "/uploads/videos/a.mp4",
		ThumbURL: "/uploads/videos/a.jpg",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := []string{"#fun", "#travel"}
	if !reflect.DeepEqual([]string(created.Hashtags), want) {
		t.Errorf("hashtags = %v, want %v", created.Hashtags, want)
	}
	if video.Views != 0 {
		t.Errorf("new videos must start with 0 views, got %d", video.Views)
	}
	if created.OwnerID != 1 {
		t.Errorf("owner = %d, want 1", created.OwnerID)
	}
}

func TestVideoService_Search_EmptyKeyword(t *testing.T) {
	videoRepo := &mockVideoRepository{}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	videos, err := svc.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(videos) != 0 {
		t.Errorf("empty keyword must yield no results, got %d", len(videos))
	}
	if len(videoRepo.searchCalls) != 0 {
		t.Error("empty keyword must not hit the repository")
	}
}

func TestVideoService_Search_PassesKeyword(t *testing.T) {
	videoRepo := &mockVideoRepository{
		searchByTitleFn: func(ctx context.Context, keyword string) ([]model.Video, error) {
			return []model.Video{{ID: 1, Title: "Funny Cats"}}, nil
		},
	}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	videos, err := svc.Search(context.Background(), "cat")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(videos) != 1 {
		t.Fatalf("expected one result, got %d", len(videos))
	}
	if len(videoRepo.searchCalls) != 1 || videoRepo.searchCalls[0] != "cat" {
		t.Errorf("search calls = %v, want [cat]", videoRepo.searchCalls)
	}
}

func TestVideoService_RegisterView(t *testing.T) {
	videoRepo := &mockVideoRepository{}
	svc := NewVideoService(videoRepo, &mockCommentRepository{})

	if err := svc.RegisterView(context.Background(), 5); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(videoRepo.incrementCalls) != 1 || videoRepo.incrementCalls[0] != 5 {
		t.Errorf("increment calls = %v, want [5]", videoRepo.incrementCalls)
	}
}
