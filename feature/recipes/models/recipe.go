package models

import (
	"strings"
	"time"

	rerrors "recipe-manager/core/errors"
)

// Recipe is the aggregate root. Its children are reconciled as a whole on update.
type Recipe struct {
	ID             int       `gorm:"column:id;primaryKey" json:"id"`
	ShortTitle     string    `gorm:"column:short_title;size:100;not null" json:"shortTitle"`
	LongTitle      string    `gorm:"column:long_title;size:255" json:"longTitle"`
	Description    string    `gorm:"column:description;type:text" json:"description"`
	OriginalLink   string    `gorm:"column:original_link;size:500" json:"originalLink"`
	LastModifier   string    `gorm:"column:last_modifier;size:100" json:"lastModifier"`
	AuditDate      time.Time `gorm:"column:audit_date;autoUpdateTime" json:"auditDate"`
	CreationDate   time.Time `gorm:"column:creation_date;autoCreateTime" json:"creationDate"`
	TimeIntervalID *int      `gorm:"column:time_interval_id" json:"timeIntervalId,omitempty"`

	Ingredients  []*Ingredient     `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Instructions []*Instruction    `gorm:"foreignKey:RecipeID" json:"instructions"`
	Medias       []*Media          `gorm:"foreignKey:RecipeID" json:"medias"`
	Categories   []*RecipeCategory `gorm:"foreignKey:RecipeID" json:"categories"`
}

// TableName overrides the table name.
func (Recipe) TableName() string {
	return "recipes"
}

// CopyScalars overwrites the client-editable fields of r with those of src.
// Id and the store-generated dates are left untouched.
func (r *Recipe) CopyScalars(src *Recipe) {
	r.ShortTitle = src.ShortTitle
	r.LongTitle = src.LongTitle
	r.Description = src.Description
	r.OriginalLink = src.OriginalLink
	r.LastModifier = src.LastModifier
	r.TimeIntervalID = src.TimeIntervalID
}

// EqualScalars reports whether r and other agree on every client-editable field.
func (r *Recipe) EqualScalars(other *Recipe) bool {
	if other == nil {
		return false
	}
	return r.ShortTitle == other.ShortTitle &&
		r.LongTitle == other.LongTitle &&
		r.Description == other.Description &&
		r.OriginalLink == other.OriginalLink &&
		r.LastModifier == other.LastModifier &&
		equalIntPtr(r.TimeIntervalID, other.TimeIntervalID)
}

// Row returns a copy of r without children, suitable for a scalar-only write.
func (r *Recipe) Row() *Recipe {
	row := *r
	row.Ingredients = nil
	row.Instructions = nil
	row.Medias = nil
	row.Categories = nil
	return &row
}

// Validate checks the recipe and every child.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.ShortTitle) == "" {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "shortTitle is required")
	}
	for _, i := range r.Ingredients {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	for _, i := range r.Instructions {
		if err := i.Validate(); err != nil {
			return err
		}
	}
	for _, c := range r.Categories {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AssignRecipe points every child at recipeID.
func (r *Recipe) AssignRecipe(recipeID int) {
	r.ID = recipeID
	for _, i := range r.Ingredients {
		i.RecipeID = recipeID
	}
	for _, i := range r.Instructions {
		i.RecipeID = recipeID
	}
	for _, m := range r.Medias {
		m.RecipeID = recipeID
	}
	for _, c := range r.Categories {
		c.RecipeID = recipeID
	}
}

// RecipeSummary is the list view of a recipe.
type RecipeSummary struct {
	ID               int       `json:"id"`
	ShortTitle       string    `json:"shortTitle"`
	LongTitle        string    `json:"longTitle"`
	LastModifier     string    `json:"lastModifier"`
	CreationDate     time.Time `json:"creationDate"`
	AuditDate        time.Time `json:"auditDate"`
	IngredientCount  int       `json:"ingredientCount"`
	InstructionCount int       `json:"instructionCount"`
	MediaCount       int       `json:"mediaCount"`
}

// Summarize builds the list view of r from its loaded children.
func (r *Recipe) Summarize() RecipeSummary {
	return RecipeSummary{
		ID:               r.ID,
		ShortTitle:       r.ShortTitle,
		LongTitle:        r.LongTitle,
		LastModifier:     r.LastModifier,
		CreationDate:     r.CreationDate,
		AuditDate:        r.AuditDate,
		IngredientCount:  len(r.Ingredients),
		InstructionCount: len(r.Instructions),
		MediaCount:       len(r.Medias),
	}
}

// RecipeDetail is a recipe with its media content loaded.
type RecipeDetail struct {
	*Recipe
	// MissingMedia lists media ids whose file could not be found.
	MissingMedia []int `json:"missingMedia,omitempty"`
}
