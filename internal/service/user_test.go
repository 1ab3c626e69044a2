package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spongetube/internal/model"
	"spongetube/internal/oauth"
)

// mockUserRepository implements repository.UserRepository with per-test
// behavior supplied through function fields.
type mockUserRepository struct {
	createFn                  func(ctx context.Context, user *model.User) error
	getByIDFn                 func(ctx context.Context, id int64) (*model.User, error)
	getLocalByUsernameFn      func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn              func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameOrEmailFn func(ctx context.Context, username, email string) (bool, error)
	existsByEmailExceptFn     func(ctx context.Context, email string, exceptID int64) (bool, error)
	existsByUsernameExceptFn  func(ctx context.Context, username string, exceptID int64) (bool, error)
	updateProfileFn           func(ctx context.Context, user *model.User) error
	updatePasswordFn          func(ctx context.Context, id int64, passwordHashed string) error

	// Track calls for assertions
	createCalls         []*model.User
	updatePasswordCalls []string
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = int64(len(m.createCalls))
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetLocalByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getLocalByUsernameFn != nil {
		return m.getLocalByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.existsByUsernameOrEmailFn != nil {
		return m.existsByUsernameOrEmailFn(ctx, username, email)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmailExcept(ctx context.Context, email string, exceptID int64) (bool, error) {
	if m.existsByEmailExceptFn != nil {
		return m.existsByEmailExceptFn(ctx, email, exceptID)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByUsernameExcept(ctx context.Context, username string, exceptID int64) (bool, error) {
	if m.existsByUsernameExceptFn != nil {
		return m.existsByUsernameExceptFn(ctx, username, exceptID)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHashed string) error {
	m.updatePasswordCalls = append(m.updatePasswordCalls, passwordHashed)
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHashed)
	}
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func TestUserService_Join_PasswordMismatch(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	_, err := svc.Join(context.Background(), &model.JoinRequest{
		Name:                 "A",
		Username:             "a",
		Email:                "a@example.com",
		Password:             "secret",
		PasswordConfirmation: "different",
	})

	if !errors.Is(err, model.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got: %v", err)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("no user should be created on password mismatch")
	}
}

func TestUserService_Join_DuplicateUsernameOrEmail(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameOrEmailFn: func(ctx context.Context, username, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	_, err := svc.Join(context.Background(), &model.JoinRequest{
		Username:             "taken",
		Email:                "taken@example.com",
		Password:             "secret",
		PasswordConfirmation: "secret",
	})

	if !errors.Is(err, model.ErrUsernameOrEmailTaken) {
		t.Fatalf("expected ErrUsernameOrEmailTaken, got: %v", err)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("no user should be created when username/email is taken")
	}
}

func TestUserService_Join_Success(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	user, err := svc.Join(context.Background(), &model.JoinRequest{
		Name:                 "A",
		Username:             "a",
		Email:                "a@example.com",
		Password:             "secret",
		PasswordConfirmation: "secret",
		Location:             "Seoul",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.PasswordHashed == "secret" {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("secret")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
	if user.SocialOnly {
		t.Error("local registrations must not be social-only")
	}
	if user.Location == nil || *user.Location != "Seoul" {
		t.Errorf("location = %v, want Seoul", user.Location)
	}
}

func TestUserService_Login_NoLocalAccount(t *testing.T) {
	// The repository only matches non-social accounts, so an OAuth-only
	// account with this username behaves exactly like a missing one.
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "ghost", Password: "x"})

	if !errors.Is(err, model.ErrNoLocalAccount) {
		t.Fatalf("expected ErrNoLocalAccount, got: %v", err)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	mockRepo := &mockUserRepository{
		getLocalByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username, PasswordHashed: hashOf(t, "right")}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "a", Password: "wrong"})

	if !errors.Is(err, model.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got: %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		getLocalByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: username, PasswordHashed: hashOf(t, "right")}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	user, err := svc.Login(context.Background(), &model.LoginRequest{Username: "a", Password: "right"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user.ID = %d, want 7", user.ID)
	}
}

func TestUserService_ChangePassword_SocialOnly(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, SocialOnly: true}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	err := svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword:             "x",
		NewPassword:             "y",
		NewPasswordConfirmation: "y",
	})

	if !errors.Is(err, model.ErrSocialOnlyAccount) {
		t.Fatalf("expected ErrSocialOnlyAccount, got: %v", err)
	}
	if len(mockRepo.updatePasswordCalls) != 0 {
		t.Error("password must not change for social-only accounts")
	}
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHashed: hashOf(t, "current")}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	err := svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword:             "not-current",
		NewPassword:             "new",
		NewPasswordConfirmation: "new",
	})

	if !errors.Is(err, model.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got: %v", err)
	}
}

func TestUserService_ChangePassword_ConfirmationMismatch(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHashed: hashOf(t, "current")}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	err := svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword:             "current",
		NewPassword:             "new",
		NewPasswordConfirmation: "other",
	})

	if !errors.Is(err, model.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got: %v", err)
	}
	if len(mockRepo.updatePasswordCalls) != 0 {
		t.Error("password must not change on confirmation mismatch")
	}
}

func TestUserService_ChangePassword_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, PasswordHashed: hashOf(t, "current")}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	err := svc.ChangePassword(context.Background(), 1, &model.ChangePasswordRequest{
		OldPassword:             "current",
		NewPassword:             "new-secret",
		NewPasswordConfirmation: "new-secret",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(mockRepo.updatePasswordCalls) != 1 {
		t.Fatalf("expected one password update, got %d", len(mockRepo.updatePasswordCalls))
	}
	stored := mockRepo.updatePasswordCalls[0]
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-secret")); err != nil {
		t.Errorf("stored hash does not match the new password: %v", err)
	}
}

func TestUserService_FindOrCreateFromGitHub_ExistingUser(t *testing.T) {
	existing := &model.User{ID: 3, Email: "dev@example.com"}
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return existing, nil
		},
	}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	user, err := svc.FindOrCreateFromGitHub(context.Background(), &oauth.GitHubUser{Login: "dev"}, "dev@example.com")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user != existing {
		t.Error("expected the existing account, not a new one")
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("no account should be created when the email already exists")
	}
}

func TestUserService_FindOrCreateFromGitHub_NewUser(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockVideoRepository{})

	gh := &oauth.GitHubUser{
		Login:     "octocat",
		Name:      "The Octocat",
		AvatarURL: "https://avatars.example/octocat.png",
		Location:  "The Internet",
	}
	user, err := svc.FindOrCreateFromGitHub(context.Background(), gh, "octo@example.com")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !user.SocialOnly {
		t.Error("GitHub-created accounts must be social-only")
	}
	if user.PasswordHashed != "" {
		t.Error("GitHub-created accounts must have an empty password")
	}
	if user.Username != "octocat" || user.Name != "The Octocat" {
		t.Errorf("profile not copied from GitHub: %+v", user)
	}
	if user.AvatarURL == nil || *user.AvatarURL != gh.AvatarURL {
		t.Errorf("avatar not copied from GitHub: %v", user.AvatarURL)
	}
}
