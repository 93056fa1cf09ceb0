package recipes

import (
	"context"
	"errors"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/reconcile"
	"recipe-manager/feature/recipes/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed persistence store of the recipe aggregate.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindRecipe loads a recipe with every child collection attached.
// It returns nil without error when the recipe does not exist.
func (s *Store) FindRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", orderByID).
		Preload("Instructions", func(db *gorm.DB) *gorm.DB { return db.Order("step, id") }).
		Preload("Medias", orderByID).
		Preload("Categories", orderByID).
		First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, rerrors.WrapWithContext(rerrors.ErrCodePersistence, "failed to load recipe", err,
			map[string]any{"recipe_id": id})
	}
	return &recipe, nil
}

// ListRecipes loads every recipe with the ids of its children.
func (s *Store) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	childIDs := func(db *gorm.DB) *gorm.DB { return db.Select("id", "recipe_id") }

	var recipes []*models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", childIDs).
		Preload("Instructions", childIDs).
		Preload("Medias", childIDs).
		Order("id").
		Find(&recipes).Error
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to list recipes", err)
	}
	return recipes, nil
}

// Commit flushes cs in a single transaction and returns the number of rows
// written. When the transaction fails, file compensations registered on cs run;
// when it commits, the commit callbacks run.
func (s *Store) Commit(ctx context.Context, cs *reconcile.ChangeSet) (int, error) {
	var changes int
	flushed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := cs.Flush(ctx, tx)
		if err != nil {
			return err
		}
		changes = n
		flushed = true
		return nil
	})
	if err != nil {
		if flushed {
			// Flush succeeded but the commit did not.
			cs.Rollback()
		}
		if _, ok := rerrors.AsStructured(err); !ok {
			err = rerrors.Wrap(rerrors.ErrCodePersistence, "failed to commit changes", err)
		}
		return 0, err
	}
	cs.Committed()
	return changes, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
