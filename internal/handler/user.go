package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"spongetube/internal/model"
	"spongetube/internal/oauth"
	"spongetube/internal/render"
	"spongetube/internal/service"
	"spongetube/internal/session"
	"spongetube/internal/transport/http/middleware"
)

const oauthStateCookie = "oauth_state"

// UserHandler groups the account pages: registration, login (local and
// GitHub), profile edit, password change and the public profile.
type UserHandler struct {
	userService *service.UserService
	sessions    *session.Manager
	render      *render.Renderer
	github      *oauth.GitHubProvider
}

func NewUserHandler(userService *service.UserService, sessions *session.Manager, renderer *render.Renderer, github *oauth.GitHubProvider) *UserHandler {
	return &UserHandler{
		userService: userService,
		sessions:    sessions,
		render:      renderer,
		github:      github,
	}
}

// GetJoin renders the registration form.
// GET /join
func (h *UserHandler) GetJoin(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "join", render.Page{PageTitle: "Join"})
}

// PostJoin handles the registration form. Validation failures re-render the
// form with a message and never create an account.
// POST /join
func (h *UserHandler) PostJoin(w http.ResponseWriter, r *http.Request) {
	req := &model.JoinRequest{
		Name:                 r.FormValue("name"),
		Username:             r.FormValue("username"),
		Email:                r.FormValue("email"),
		Password:             r.FormValue("password"),
		PasswordConfirmation: r.FormValue("password2"),
		Location:             r.FormValue("location"),
	}

	_, err := h.userService.Join(r.Context(), req)
	if err != nil {
		message := "Could not create the account."
		switch {
		case errors.Is(err, model.ErrPasswordMismatch):
			message = "Password confirmation does not match."
		case errors.Is(err, model.ErrUsernameOrEmailTaken):
			message = "This username/email is already taken."
		default:
			log.Printf("[UserHandler] Join failed: %v", err)
		}
		h.render.HTML(w, r, http.StatusBadRequest, "join", render.Page{
			PageTitle:    "Join",
			ErrorMessage: message,
		})
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetLogin renders the login form.
// GET /login
func (h *UserHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "login", render.Page{PageTitle: "Login"})
}

// PostLogin handles local password login.
// POST /login
func (h *UserHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	req := &model.LoginRequest{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	user, err := h.userService.Login(r.Context(), req)
	if err != nil {
		message := "Could not log in."
		switch {
		case errors.Is(err, model.ErrNoLocalAccount):
			message = "An account with username does not exists."
		case errors.Is(err, model.ErrWrongPassword):
			message = "Wrong password."
		default:
			log.Printf("[UserHandler] Login failed: %v", err)
		}
		h.render.HTML(w, r, http.StatusBadRequest, "login", render.Page{
			PageTitle:    "Login",
			ErrorMessage: message,
		})
		return
	}

	if err := h.sessions.LogIn(w, r, user); err != nil {
		log.Printf("[UserHandler] Failed to save session: %v", err)
		h.render.ServerError(w, r, "Failed to log in.")
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// StartGithubLogin redirects the browser to GitHub's authorize endpoint. A
// random state is kept in a short-lived cookie and verified on the way back.
// GET /users/github/start
func (h *UserHandler) StartGithubLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusFound)
}

// FinishGithubLogin completes the OAuth flow. Provider failures (no token,
// no verified primary email) redirect to the login page without detail and
// without establishing a session.
// GET /users/github/finish
func (h *UserHandler) FinishGithubLogin(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	token, err := h.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("[UserHandler] GitHub token exchange failed: %v", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	ghUser, err := h.github.FetchUser(r.Context(), token)
	if err != nil {
		log.Printf("[UserHandler] GitHub profile fetch failed: %v", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	email, err := h.github.FetchVerifiedPrimaryEmail(r.Context(), token)
	if err != nil {
		if !errors.Is(err, oauth.ErrNoVerifiedEmail) {
			log.Printf("[UserHandler] GitHub email fetch failed: %v", err)
		}
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.userService.FindOrCreateFromGitHub(r.Context(), ghUser, email)
	if err != nil {
		log.Printf("[UserHandler] GitHub find-or-create failed: %v", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.sessions.LogIn(w, r, user); err != nil {
		log.Printf("[UserHandler] Failed to save session: %v", err)
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the session and redirects home. Destroy errors are
// swallowed.
// GET /users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Flash(w, r, "info", "Bye Bye")
	if err := h.sessions.LogOut(w, r); err != nil {
		log.Printf("[UserHandler] Failed to destroy session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// GetEdit renders the profile edit form.
// GET /users/edit
func (h *UserHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "edit-profile", render.Page{PageTitle: "Edit Profile"})
}

// PostEdit handles the profile edit form, including an optional avatar
// upload already persisted by the upload middleware.
// POST /users/edit
func (h *UserHandler) PostEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	uploads := middleware.FilesFromContext(r.Context())
	if err := uploads.Err(); err != nil {
		h.render.HTML(w, r, http.StatusBadRequest, "edit-profile", render.Page{
			PageTitle:    "Edit Profile",
			ErrorMessage: uploadErrorMessage(err),
		})
		return
	}

	req := &model.UpdateProfileRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Username: r.FormValue("username"),
		Location: r.FormValue("location"),
	}
	if avatar, ok := uploads.File("avatar"); ok {
		req.AvatarURL = &avatar.URL
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		message := "Could not update the profile."
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			message = "This email is already taken."
		case errors.Is(err, model.ErrUsernameTaken):
			message = "This username is already taken."
		default:
			log.Printf("[UserHandler] Profile update failed: %v", err)
		}
		h.render.HTML(w, r, http.StatusBadRequest, "edit-profile", render.Page{
			PageTitle:    "Edit Profile",
			ErrorMessage: message,
		})
		return
	}

	if err := h.sessions.Refresh(w, r, updated); err != nil {
		log.Printf("[UserHandler] Failed to refresh session: %v", err)
	}

	http.Redirect(w, r, "/users/edit", http.StatusFound)
}

// GetChangePassword renders the password change form, or turns OAuth-only
// accounts away.
// GET /users/change-password
func (h *UserHandler) GetChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())
	if user.SocialOnly {
		h.sessions.Flash(w, r, "error", "Can't change password.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render.HTML(w, r, http.StatusOK, "change-password", render.Page{PageTitle: "Change Password"})
}

// PostChangePassword handles the password change form.
// POST /users/change-password
func (h *UserHandler) PostChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	req := &model.ChangePasswordRequest{
		OldPassword:             r.FormValue("oldPassword"),
		NewPassword:             r.FormValue("newPassword"),
		NewPasswordConfirmation: r.FormValue("newPasswordConfirmation"),
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, req); err != nil {
		if errors.Is(err, model.ErrSocialOnlyAccount) {
			h.sessions.Flash(w, r, "error", "Can't change password.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		message := "Could not change the password."
		switch {
		case errors.Is(err, model.ErrWrongPassword):
			message = "The current password is incorrect."
		case errors.Is(err, model.ErrPasswordMismatch):
			message = "The password does not match the confirmation."
		default:
			log.Printf("[UserHandler] Password change failed: %v", err)
		}
		h.render.HTML(w, r, http.StatusBadRequest, "change-password", render.Page{
			PageTitle:    "Change Password",
			ErrorMessage: message,
		})
		return
	}

	h.sessions.Flash(w, r, "info", "Password updated")
	http.Redirect(w, r, "/users/logout", http.StatusFound)
}

// See renders a public profile with the user's videos.
// GET /users/{id}
func (h *UserHandler) See(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.render.NotFound(w, r, "User not found.")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			h.render.NotFound(w, r, "User not found.")
			return
		}
		log.Printf("[UserHandler] Profile load failed: %v", err)
		h.render.ServerError(w, r, "Failed to load the profile.")
		return
	}

	h.render.HTML(w, r, http.StatusOK, "profile", render.Page{
		PageTitle: user.Name,
		Data:      map[string]interface{}{"User": user},
	})
}

// uploadErrorMessage maps upload middleware failures to form messages.
func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, model.ErrInvalidImageType):
		return "Unsupported image type. Allowed: jpeg, png, gif, webp."
	default:
		return "Invalid upload."
	}
}
