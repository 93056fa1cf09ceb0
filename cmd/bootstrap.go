package cmd

import (
	"context"
	"fmt"

	"recipe-manager/core/cache"
	"recipe-manager/core/config"
	"recipe-manager/core/database"
	"recipe-manager/core/logger"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the dependencies every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	media  *media.Helper
	cache  *cache.Cache
}

// bootstrap loads configuration and connects the database and media backend.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	logg = logg.With(zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, models.All()...); err != nil {
			return nil, err
		}
		logg.Info("Database schema migrated")
	}

	blobs, err := newBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		logger: logg,
		db:     db,
		media:  media.NewHelper(cfg.Media, blobs, logg),
		cache:  cache.New(cfg.Cache, logg),
	}, nil
}

// newBlobs selects the media backend.
func newBlobs(ctx context.Context, cfg *config.Config) (storage.Blobs, error) {
	switch cfg.Media.Backend {
	case media.BackendLocal, "":
		return storage.NewLocal(), nil
	case media.BackendS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		obj := storage.NewObject(client, cfg.Storage.Bucket)
		if err := obj.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown media backend: %s", cfg.Media.Backend)
	}
}
