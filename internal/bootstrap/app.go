package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"causelist-backend/internal/auth"
	"causelist-backend/internal/causelist"
	"causelist-backend/internal/scraper"
	"causelist-backend/internal/shared/config"
	"causelist-backend/internal/shared/server"
	"causelist-backend/internal/shared/storage/db"
	"causelist-backend/internal/shared/storage/object"
	objectlocal "causelist-backend/internal/shared/storage/object/local"
	objects3 "causelist-backend/internal/shared/storage/object/s3"
	"causelist-backend/internal/shared/telemetry"
	"causelist-backend/internal/users"
)

// App bundles the constructed application and its owned resources.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB // nil when running on in-memory storage
}

// Build wires the application from configuration: storage, upstream client,
// services, and the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	var scraperRepo scraper.Repo
	var userRepo users.Repo
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := db.RunMigrations(ctx, database); err != nil {
			database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		app.DB = database
		scraperRepo = &scraper.PGRepo{DB: database}
		userRepo = &users.PGRepo{DB: database}
		telemetry.Info("storage.ready", map[string]any{"backend": "postgres"})
	} else {
		scraperRepo = scraper.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		telemetry.Info("storage.ready", map[string]any{"backend": "memory"})
	}

	archive, err := buildArchiveStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := causelist.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, cfg.UpstreamInsecureTLS)

	scraperSvc := scraper.NewService(scraperRepo, client)
	scraperSvc.Archive = archive
	scraperSvc.PDFFallback = cfg.PDFFallback

	userSvc := users.NewService(userRepo, cfg.SuperadminEmails)
	googleSvc := auth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		userSvc,
	)

	app.Router = server.NewRouter(cfg, googleSvc, scraper.NewHandler(scraperSvc))
	return app, nil
}

// Close releases resources owned by the app.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func buildArchiveStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ArchiveStoreType {
	case "s3":
		store, err := objects3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 archive: %w", err)
		}
		return store, nil
	default:
		return objectlocal.New(cfg.LocalArchiveDir), nil
	}
}
