package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spongetube/internal/handler"
	"spongetube/internal/httputil"
	"spongetube/internal/model"
	"spongetube/internal/session"
	"spongetube/internal/storage"
	appmw "spongetube/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler    *handler.UserHandler
	VideoHandler   *handler.VideoHandler
	CommentHandler *handler.CommentHandler
	Sessions       *session.Manager
	Store          storage.Store

	// Set when uploads live on local disk and must be served as static
	// files at PublicUploadBase.
	ServeUploadsFrom string
	PublicUploadBase string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	protect := appmw.Protector(cfg.Sessions)
	protectAPI := appmw.ProtectorAPI(cfg.Sessions)
	publicOnly := appmw.PublicOnly(cfg.Sessions)

	avatarUpload := appmw.Files(cfg.Store, appmw.FileField{
		Name:    "avatar",
		Folder:  model.AvatarFolder,
		MaxSize: model.MaxAvatarSizeBytes,
		Image:   true,
		Avatar:  true,
	})
	videoUpload := appmw.Files(cfg.Store,
		appmw.FileField{
			Name:    "video",
			Folder:  model.VideoFolder,
			MaxSize: model.MaxVideoSizeBytes,
		},
		appmw.FileField{
			Name:    "thumb",
			Folder:  model.VideoFolder,
			MaxSize: model.MaxAvatarSizeBytes,
			Image:   true,
		},
	)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public pages
	r.Get("/", cfg.VideoHandler.Home)
	r.Get("/search", cfg.VideoHandler.Search)
	r.Get("/videos/{id}", cfg.VideoHandler.Watch)
	r.Get("/users/{id}", cfg.UserHandler.See)

	// Anonymous-only pages
	r.Group(func(r chi.Router) {
		r.Use(publicOnly)

		r.Get("/join", cfg.UserHandler.GetJoin)
		r.Post("/join", cfg.UserHandler.PostJoin)
		r.Get("/login", cfg.UserHandler.GetLogin)
		r.Post("/login", cfg.UserHandler.PostLogin)
		r.Get("/users/github/start", cfg.UserHandler.StartGithubLogin)
		r.Get("/users/github/finish", cfg.UserHandler.FinishGithubLogin)
	})

	// Protected pages - require a logged-in session
	r.Group(func(r chi.Router) {
		r.Use(protect)

		r.Get("/users/logout", cfg.UserHandler.Logout)
		r.Get("/users/edit", cfg.UserHandler.GetEdit)
		r.With(avatarUpload).Post("/users/edit", cfg.UserHandler.PostEdit)
		r.Get("/users/change-password", cfg.UserHandler.GetChangePassword)
		r.Post("/users/change-password", cfg.UserHandler.PostChangePassword)

		r.Get("/videos/upload", cfg.VideoHandler.GetUpload)
		r.With(videoUpload).Post("/videos/upload", cfg.VideoHandler.PostUpload)
		r.Get("/videos/{id}/edit", cfg.VideoHandler.GetEdit)
		r.Post("/videos/{id}/edit", cfg.VideoHandler.PostEdit)
		r.Get("/videos/{id}/delete", cfg.VideoHandler.Delete)
	})

	// Comment API - same session requirement, but JSON errors instead of
	// login redirects
	r.Group(func(r chi.Router) {
		r.Use(protectAPI)

		r.Post("/api/videos/{id}/comment", cfg.CommentHandler.Create)
		r.Delete("/api/videos/{id}/comments/{commentId}", cfg.CommentHandler.Delete)
	})

	// View registration is open to anonymous viewers
	r.Post("/api/videos/{id}/view", cfg.VideoHandler.RegisterView)

	// Serve disk-stored uploads as static files
	if cfg.ServeUploadsFrom != "" {
		fileServer := http.StripPrefix(cfg.PublicUploadBase+"/", http.FileServer(http.Dir(cfg.ServeUploadsFrom)))
		r.Get(cfg.PublicUploadBase+"/*", fileServer.ServeHTTP)
	}

	return r
}
