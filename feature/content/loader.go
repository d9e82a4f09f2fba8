package content

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-forge/feature/content/parse"
	"content-forge/feature/content/store"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the content feature for one active game system.
func NewFeature(logger *zap.Logger, world store.DocumentStore, libraries *store.LibraryStore, system string, traits parse.TraitSet, generator Generator) (*Feature, error) {
	svc, err := NewService(logger, world, libraries, system, traits, generator)
	if err != nil {
		return nil, err
	}
	return &Feature{service: svc, handler: NewHandler(svc)}, nil
}

// Service exposes the underlying service for CLI callers.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "content"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
