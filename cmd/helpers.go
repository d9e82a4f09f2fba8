package cmd

import (
	"fmt"

	"content-forge/core/config"
	"content-forge/core/database"
	"content-forge/core/logger"
	"content-forge/core/storage"
	"content-forge/feature/content"
	"content-forge/feature/content/parse"
	"content-forge/feature/content/store"

	"go.uber.org/zap"
)

// cliEnv bundles the pieces CLI commands need to run against the stores.
type cliEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *content.Service
}

// buildEnv loads configuration, connects the stores, and builds the
// content service for CLI use.
func buildEnv() (*cliEnv, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if !cfg.Server.HasSystem() {
		return nil, fmt.Errorf("no active game system configured, set SERVER_SYSTEM")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	world := store.NewGormStore(db)
	if err := world.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate document schema: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	libraries := store.NewLibraryStore(client, cfg.Storage.Bucket)

	traits := parse.NewTraitSet(cfg.Server.TraitKeys()...)
	svc, err := content.NewService(l, world, libraries, cfg.Server.System, traits, nil)
	if err != nil {
		return nil, err
	}

	return &cliEnv{cfg: cfg, logger: l, service: svc}, nil
}
