package app

import (
	"context"
	"fmt"

	"travelChronicle/internal/config"
	"travelChronicle/internal/database"
	"travelChronicle/internal/logger"
	"travelChronicle/internal/repository"
	"travelChronicle/internal/service"
	"travelChronicle/internal/storage"
)

// App wires the repository and services for the configured storage driver.
// The returned cleanup releases whatever the driver opened.
func App(ctx context.Context, cfg *config.Config, log logger.Logger) (*repository.Repository, *service.Service, func(), error) {
	postRepo, cleanup, err := newPostRepository(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	repo := repository.NewRepository(postRepo)
	services := service.NewService(repo, log)

	return repo, services, cleanup, nil
}

func newPostRepository(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.PostRepository, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case config.DriverFile:
		store, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		log.Info("using file storage", "dir", cfg.Storage.Dir, "key", cfg.Storage.Key)
		return repository.NewBlobPostRepository(store, cfg.Storage.Key, log), noop, nil

	case config.DriverMemory:
		log.Info("using in-memory storage, posts will not survive a restart")
		return repository.NewBlobPostRepository(storage.NewMemoryStore(), cfg.Storage.Key, log), noop, nil

	case config.DriverMinIO:
		store, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialise minio: %w", err)
		}
		log.Info("using minio storage", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.BucketName)
		return repository.NewBlobPostRepository(store, cfg.Storage.Key, log), noop, nil

	case config.DriverPostgres:
		db, err := database.ConnectDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.CloseDB(); err != nil {
				log.Error("failed to close database", "error", err)
			}
		}
		return repository.NewPostRepository(db.DB), cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
