package models

import (
	"fmt"

	rerrors "recipe-manager/core/errors"
)

const (
	// MinQuantity is the exclusive lower bound of an ingredient quantity.
	MinQuantity = 0.1
	// MaxDescriptionLength bounds an instruction description.
	MaxDescriptionLength = 500
)

// Ingredient is a recipe ingredient.
type Ingredient struct {
	ID       int     `gorm:"column:id;primaryKey" json:"id"`
	Name     string  `gorm:"column:name;size:100;not null" json:"name"`
	Quantity float64 `gorm:"column:quantity" json:"quantity"`
	RecipeID int     `gorm:"column:recipe_id;index" json:"recipeId"`
	UnitID   int     `gorm:"column:unit_id" json:"unitId"`
}

// TableName overrides the table name.
func (Ingredient) TableName() string {
	return "ingredients"
}

// Identity returns the ingredient id.
func (i *Ingredient) Identity() int { return i.ID }

// ResetIdentity clears the id.
func (i *Ingredient) ResetIdentity() { i.ID = 0 }

// Equal compares every persisted field.
func (i *Ingredient) Equal(o *Ingredient) bool {
	if o == nil {
		return false
	}
	return i.ID == o.ID &&
		i.Name == o.Name &&
		i.Quantity == o.Quantity &&
		i.RecipeID == o.RecipeID &&
		i.UnitID == o.UnitID
}

// Validate checks the quantity bound.
func (i *Ingredient) Validate() error {
	if i.Quantity <= MinQuantity {
		return rerrors.NewWithContext(rerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("ingredient %q: quantity must be greater than %v", i.Name, MinQuantity),
			map[string]any{"id": i.ID})
	}
	return nil
}

// Instruction is one step of a recipe.
type Instruction struct {
	ID          int    `gorm:"column:id;primaryKey" json:"id"`
	Step        int    `gorm:"column:step" json:"step"`
	Description string `gorm:"column:description;size:500" json:"description"`
	RecipeID    int    `gorm:"column:recipe_id;index" json:"recipeId"`
	MediaID     *int   `gorm:"column:media_id" json:"mediaId,omitempty"`
}

// TableName overrides the table name.
func (Instruction) TableName() string {
	return "instructions"
}

// Identity returns the instruction id.
func (i *Instruction) Identity() int { return i.ID }

// ResetIdentity clears the id.
func (i *Instruction) ResetIdentity() { i.ID = 0 }

// Equal compares every persisted field.
func (i *Instruction) Equal(o *Instruction) bool {
	if o == nil {
		return false
	}
	return i.ID == o.ID &&
		i.Step == o.Step &&
		i.Description == o.Description &&
		i.RecipeID == o.RecipeID &&
		equalIntPtr(i.MediaID, o.MediaID)
}

// Validate checks the step and description bounds.
func (i *Instruction) Validate() error {
	if i.Step < 1 {
		return rerrors.NewWithContext(rerrors.ErrCodeInvalidRequest,
			"instruction step must be at least 1", map[string]any{"id": i.ID, "step": i.Step})
	}
	if len([]rune(i.Description)) > MaxDescriptionLength {
		return rerrors.NewWithContext(rerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("instruction description exceeds %d characters", MaxDescriptionLength),
			map[string]any{"id": i.ID, "step": i.Step})
	}
	return nil
}

// RecipeCategory links a recipe to a category.
// It is reconciled by category id; the row id is store-internal.
type RecipeCategory struct {
	ID         int `gorm:"column:id;primaryKey" json:"id"`
	RecipeID   int `gorm:"column:recipe_id;index" json:"recipeId"`
	CategoryID int `gorm:"column:category_id;index" json:"categoryId"`
}

// TableName overrides the table name.
func (RecipeCategory) TableName() string {
	return "recipe_categories"
}

// Identity returns the linked category id.
func (c *RecipeCategory) Identity() int { return c.CategoryID }

// ResetIdentity clears the row id; the category id is kept.
func (c *RecipeCategory) ResetIdentity() { c.ID = 0 }

// Equal compares the link targets.
func (c *RecipeCategory) Equal(o *RecipeCategory) bool {
	if o == nil {
		return false
	}
	return c.RecipeID == o.RecipeID && c.CategoryID == o.CategoryID
}

// Validate requires a category id.
func (c *RecipeCategory) Validate() error {
	if c.CategoryID == 0 {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "category link requires a categoryId")
	}
	return nil
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
