package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"spongetube/internal/httputil"
	"spongetube/internal/model"
	"spongetube/internal/service"
	"spongetube/internal/transport/http/middleware"
)

// CommentHandler serves the JSON comment API used by the watch page.
type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create adds a comment to a video for the current user and returns the new
// comment's id.
// POST /api/videos/{id}/comment
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	text := commentText(r)

	comment, err := h.commentService.Create(r.Context(), videoID, user.ID, text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrVideoNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, model.ErrTextRequired):
			httputil.WriteBadRequest(w, "Comment text is required")
		default:
			log.Printf("[CommentHandler] Create failed: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"newCommentId": comment.ID})
}

// Delete removes a comment owned by the current user.
// DELETE /api/videos/{id}/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.CurrentUser(r.Context())

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentId"), 10, 64)
	if err != nil {
		httputil.WriteNotFound(w, "Comment not found")
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, user.ID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, "Comment not found")
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, "Not allowed to delete this comment")
		default:
			log.Printf("[CommentHandler] Delete failed: %v", err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// commentText reads the comment body from either a JSON payload (the watch
// page script) or a plain form post.
func commentText(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return body.Text
		}
		return ""
	}
	return r.FormValue("text")
}
