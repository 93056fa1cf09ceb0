package catalog

import (
	"fmt"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/feature/recipes/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface for the lookup tables.
type Feature struct {
	units         *Resource[models.Unit, *models.Unit]
	categories    *Resource[models.Category, *models.Category]
	timeIntervals *Resource[models.TimeInterval, *models.TimeInterval]
}

// NewFeature creates the catalog feature serving /units, /categories and /time-intervals.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	return &Feature{
		units: NewResource("/units",
			NewRepository[models.Unit](db, rejectUnitInUse), logger),
		categories: NewResource("/categories",
			NewRepository[models.Category](db, unlinkCategory), logger),
		timeIntervals: NewResource("/time-intervals",
			NewRepository[models.TimeInterval](db, detachTimeInterval), logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.units.RegisterRoutes(app)
	f.categories.RegisterRoutes(app)
	f.timeIntervals.RegisterRoutes(app)
	return nil
}

// rejectUnitInUse refuses to delete a unit still referenced by an ingredient.
func rejectUnitInUse(tx *gorm.DB, id int) error {
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("unit_id = ?", id).Count(&count).Error; err != nil {
		return rerrors.Wrap(rerrors.ErrCodePersistence, "failed to check unit usage", err)
	}
	if count > 0 {
		return rerrors.NewWithContext(rerrors.ErrCodePersistence,
			fmt.Sprintf("unit %d is used by %d ingredient(s)", id, count),
			map[string]any{"unit_id": id, "ingredients": count})
	}
	return nil
}

// unlinkCategory removes every recipe link to the category.
func unlinkCategory(tx *gorm.DB, id int) error {
	if err := tx.Where("category_id = ?", id).Delete(&models.RecipeCategory{}).Error; err != nil {
		return rerrors.Wrap(rerrors.ErrCodePersistence, "failed to unlink category", err)
	}
	return nil
}

// detachTimeInterval clears the interval from every recipe using it.
func detachTimeInterval(tx *gorm.DB, id int) error {
	err := tx.Model(&models.Recipe{}).Where("time_interval_id = ?", id).
		UpdateColumn("time_interval_id", gorm.Expr("NULL")).Error
	if err != nil {
		return rerrors.Wrap(rerrors.ErrCodePersistence, "failed to detach time interval", err)
	}
	return nil
}
