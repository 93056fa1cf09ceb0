package recipes

import (
	"recipe-manager/core/cache"
	"recipe-manager/feature/recipes/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Recipes feature.
func NewFeature(db *gorm.DB, helper *media.Helper, c *cache.Cache, logger *zap.Logger) *Feature {
	svc := NewService(NewStore(db), helper, c, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "recipes"
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

// Service returns the recipe service.
func (f *Feature) Service() *Service {
	return f.service
}
