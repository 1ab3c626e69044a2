package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"spongetube/internal/config"
	"spongetube/internal/database"
	"spongetube/internal/handler"
	"spongetube/internal/oauth"
	"spongetube/internal/render"
	"spongetube/internal/repository"
	"spongetube/internal/service"
	"spongetube/internal/session"
	"spongetube/internal/storage"
)

// Run wires the whole application and serves it.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Storage backend: S3-compatible bucket when configured, local disk
	// otherwise.
	var store storage.Store
	serveUploadsFrom := ""
	if cfg.UseObjectStorage() {
		s3Store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("failed to set up object storage: %w", err)
		}
		store = s3Store
		log.Println("Using S3-compatible upload storage")
	} else {
		diskStore, err := storage.NewDiskStore(cfg.UploadDir, cfg.PublicUploadBase)
		if err != nil {
			return fmt.Errorf("failed to set up disk storage: %w", err)
		}
		store = diskStore
		serveUploadsFrom = cfg.UploadDir
		log.Printf("Using disk upload storage at %s", cfg.UploadDir)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionName)

	renderer, err := render.New(cfg.SiteName, sessions)
	if err != nil {
		return fmt.Errorf("failed to set up renderer: %w", err)
	}

	github := oauth.NewGitHubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubCallbackURL)

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	userService := service.NewUserService(userRepo, videoRepo)
	videoService := service.NewVideoService(videoRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo, videoRepo, db)

	router := NewRouter(RouterConfig{
		UserHandler:      handler.NewUserHandler(userService, sessions, renderer, github),
		VideoHandler:     handler.NewVideoHandler(videoService, sessions, renderer),
		CommentHandler:   handler.NewCommentHandler(commentService),
		Sessions:         sessions,
		Store:            store,
		ServeUploadsFrom: serveUploadsFrom,
		PublicUploadBase: cfg.PublicUploadBase,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
