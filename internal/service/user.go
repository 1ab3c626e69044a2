package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"spongetube/internal/model"
	"spongetube/internal/oauth"
	"spongetube/internal/repository"
)

// UserService handles business logic for user accounts.
type UserService struct {
	repo      repository.UserRepository
	videoRepo repository.VideoRepository
}

func NewUserService(repo repository.UserRepository, videoRepo repository.VideoRepository) *UserService {
	return &UserService{
		repo:      repo,
		videoRepo: videoRepo,
	}
}

// Join creates a new local account. The password is hashed before it ever
// reaches the repository.
func (s *UserService) Join(ctx context.Context, req *model.JoinRequest) (*model.User, error) {
	if req.Password != req.PasswordConfirmation {
		return nil, model.ErrPasswordMismatch
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check username/email: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameOrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
	}
	if loc := strings.TrimSpace(req.Location); loc != "" {
		user.Location = &loc
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a local account. OAuth-only accounts never match the
// username lookup, so they fail with the same not-found error a missing
// account does.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetLocalByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrNoLocalAccount
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrWrongPassword
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile retrieves a user with their uploaded videos for the public
// profile page.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Videos = videos

	return user, nil
}

// UpdateProfile applies the edit form. Email and username may only change to
// values no other account holds.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != user.Email {
		taken, err := s.repo.ExistsByEmailExcept(ctx, req.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, model.ErrEmailTaken
		}
	}

	if req.Username != user.Username {
		taken, err := s.repo.ExistsByUsernameExcept(ctx, req.Username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, model.ErrUsernameTaken
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Username = req.Username
	if loc := strings.TrimSpace(req.Location); loc != "" {
		user.Location = &loc
	} else {
		user.Location = nil
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangePassword verifies the current password and stores a freshly hashed
// replacement. Rejected outright for OAuth-only accounts.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *model.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.SocialOnly {
		return model.ErrSocialOnlyAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.OldPassword)); err != nil {
		return model.ErrWrongPassword
	}

	if req.NewPassword != req.NewPasswordConfirmation {
		return model.ErrPasswordMismatch
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashedPassword))
}

// FindOrCreateFromGitHub resolves the local account for a GitHub login, keyed
// by the verified primary email. First-time logins create an OAuth-only
// account with profile data copied from the provider.
func (s *UserService) FindOrCreateFromGitHub(ctx context.Context, gh *oauth.GitHubUser, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	name := gh.Name
	if name == "" {
		name = gh.Login
	}

	user = &model.User{
		Name:           name,
		Username:       gh.Login,
		Email:          email,
		PasswordHashed: "",
		SocialOnly:     true,
	}
	if gh.AvatarURL != "" {
		avatarURL := gh.AvatarURL
		user.AvatarURL = &avatarURL
	}
	if gh.Location != "" {
		location := gh.Location
		user.Location = &location
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user from GitHub profile: %w", err)
	}

	log.Printf("[UserService] Created OAuth-only account for %s", user.Username)
	return user, nil
}
