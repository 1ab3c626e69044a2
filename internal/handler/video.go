package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"spongetube/internal/model"
	"spongetube/internal/render"
	"spongetube/internal/service"
	"spongetube/internal/session"
	"spongetube/internal/transport/http/middleware"
)

// VideoHandler groups the catalog pages: home, watch, search, upload, edit
// and delete, plus the bare view-count API.
type VideoHandler struct {
	videoService *service.VideoService
	sessions     *session.Manager
	render       *render.Renderer
}

func NewVideoHandler(videoService *service.VideoService, sessions *session.Manager, renderer *render.Renderer) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		sessions:     sessions,
		render:       renderer,
	}
}

// Home lists all videos, newest first.
// GET /
func (h *VideoHandler) Home(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videoService.Home(r.Context())
	if err != nil {
		log.Printf("[VideoHandler] Home listing failed: %v", err)
		h.render.ServerError(w, r, "Failed to load videos.")
		return
	}

	h.render.HTML(w, r, http.StatusOK, "home", render.Page{
		PageTitle: "Home",
		Data:      map[string]interface{}{"Videos": videos},
	})
}

// Watch renders a single video with its owner and comments.
// GET /videos/{id}
func (h *VideoHandler) Watch(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		h.render.NotFound(w, r, "Video not found.")
		return
	}

	video, err := h.videoService.Watch(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			h.render.NotFound(w, r, "Video not found.")
			return
		}
		log.Printf("[VideoHandler] Watch failed: %v", err)
		h.render.ServerError(w, r, "Failed to load the video.")
		return
	}

	h.render.HTML(w, r, http.StatusOK, "watch", render.Page{
		PageTitle: video.Title,
		Data:      map[string]interface{}{"Video": video},
	})
}

// GetEdit renders the edit form for a video the current user owns.
// GET /videos/{id}/edit
func (h *VideoHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	id, ok := videoID(r)
	if !ok {
		h.render.NotFound(w, r, "Video not found.")
		return
	}

	video, err := h.videoService.GetOwned(r.Context(), id, user.ID)
	if err != nil {
		h.ownedVideoError(w, r, err)
		return
	}

	h.render.HTML(w, r, http.StatusOK, "edit-video", render.Page{
		PageTitle: fmt.Sprintf("Edit: %s", video.Title),
		Data: map[string]interface{}{
			"Video":    video,
			"Hashtags": strings.Join(video.Hashtags, ","),
		},
	})
}

// PostEdit applies the edit form: title, description and normalized
// hashtags.
// POST /videos/{id}/edit
func (h *VideoHandler) PostEdit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	id, ok := videoID(r)
	if !ok {
		h.render.NotFound(w, r, "Video not found.")
		return
	}

	req := &model.EditVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Hashtags:    r.FormValue("hashtags"),
	}

	if err := h.videoService.Edit(r.Context(), id, user.ID, req); err != nil {
		h.ownedVideoError(w, r, err)
		return
	}

	h.sessions.Flash(w, r, "success", "Changes saved.")
	http.Redirect(w, r, fmt.Sprintf("/videos/%d", id), http.StatusFound)
}

// GetUpload renders the upload form.
// GET /videos/upload
func (h *VideoHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, r, http.StatusOK, "upload", render.Page{PageTitle: "Upload Video"})
}

// PostUpload creates a video from the form fields and the files the upload
// middleware already persisted.
// POST /videos/upload
func (h *VideoHandler) PostUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	uploads := middleware.FilesFromContext(r.Context())
	if err := uploads.Err(); err != nil {
		h.render.HTML(w, r, http.StatusBadRequest, "upload", render.Page{
			PageTitle:    "Upload Video",
			ErrorMessage: uploadErrorMessage(err),
		})
		return
	}

	videoFile, okVideo := uploads.File("video")
	thumbFile, okThumb := uploads.File("thumb")
	if !okVideo || !okThumb {
		h.render.HTML(w, r, http.StatusBadRequest, "upload", render.Page{
			PageTitle:    "Upload Video",
			ErrorMessage: "A video file and a thumbnail are required.",
		})
		return
	}

	req := &model.UploadVideoRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Hashtags:    r.FormValue("hashtags"),
		FileURL:     videoFile.URL,
		ThumbURL:    thumbFile.URL,
	}

	if _, err := h.videoService.Upload(r.Context(), user.ID, req); err != nil {
		log.Printf("[VideoHandler] Upload failed: %v", err)
		h.render.HTML(w, r, http.StatusBadRequest, "upload", render.Page{
			PageTitle:    "Upload Video",
			ErrorMessage: "Could not upload the video.",
		})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Delete removes a video the current user owns.
// GET /videos/{id}/delete
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	id, ok := videoID(r)
	if !ok {
		h.render.NotFound(w, r, "Video not found.")
		return
	}

	if err := h.videoService.Delete(r.Context(), id, user.ID); err != nil {
		h.ownedVideoError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Search matches video titles against the keyword query parameter. An empty
// keyword renders an empty result set.
// GET /search
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	videos, err := h.videoService.Search(r.Context(), keyword)
	if err != nil {
		log.Printf("[VideoHandler] Search failed: %v", err)
		h.render.ServerError(w, r, "Failed to search videos.")
		return
	}

	h.render.HTML(w, r, http.StatusOK, "search", render.Page{
		PageTitle: "Search",
		Data: map[string]interface{}{
			"Keyword": keyword,
			"Videos":  videos,
		},
	})
}

// RegisterView bumps a video's view counter. Bare status codes, no body.
// POST /api/videos/{id}/view
func (h *VideoHandler) RegisterView(w http.ResponseWriter, r *http.Request) {
	id, ok := videoID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.videoService.RegisterView(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrVideoNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("[VideoHandler] View registration failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ownedVideoError maps the owner-guard failures onto the page responses: a
// missing video renders 404, a non-owner gets flashed and sent home with a
// 403.
func (h *VideoHandler) ownedVideoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrVideoNotFound):
		h.render.NotFound(w, r, "Video not found.")
	case errors.Is(err, model.ErrNotVideoOwner):
		h.sessions.Flash(w, r, "error", "Not authorized")
		http.Redirect(w, r, "/", http.StatusForbidden)
	default:
		log.Printf("[VideoHandler] Video operation failed: %v", err)
		h.render.ServerError(w, r, "Something went wrong.")
	}
}

func videoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
