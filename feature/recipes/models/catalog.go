package models

import (
	"strings"

	rerrors "recipe-manager/core/errors"
)

// Unit is a measurement unit referenced by ingredients.
type Unit struct {
	ID     int    `gorm:"column:id;primaryKey" json:"id"`
	Name   string `gorm:"column:name;size:50;not null" json:"name"`
	Symbol string `gorm:"column:symbol;size:10" json:"symbol"`
}

// TableName overrides the table name.
func (Unit) TableName() string {
	return "units"
}

// Category groups recipes.
type Category struct {
	ID   int    `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;size:100;not null" json:"name"`
}

// TableName overrides the table name.
func (Category) TableName() string {
	return "categories"
}

// TimeInterval is a preparation time bracket.
type TimeInterval struct {
	ID      int    `gorm:"column:id;primaryKey" json:"id"`
	Label   string `gorm:"column:label;size:100;not null" json:"label"`
	Minutes int    `gorm:"column:minutes" json:"minutes"`
}

// TableName overrides the table name.
func (TimeInterval) TableName() string {
	return "time_intervals"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Unit{}, &Category{}, &TimeInterval{},
		&Recipe{}, &Ingredient{}, &Instruction{}, &Media{}, &RecipeCategory{},
	}
}

// GetID returns the unit id.
func (u *Unit) GetID() int { return u.ID }

// SetID sets the unit id.
func (u *Unit) SetID(id int) { u.ID = id }

// Validate requires a name.
func (u *Unit) Validate() error { return requireName("unit", u.Name) }

// GetID returns the category id.
func (c *Category) GetID() int { return c.ID }

// SetID sets the category id.
func (c *Category) SetID(id int) { c.ID = id }

// Validate requires a name.
func (c *Category) Validate() error { return requireName("category", c.Name) }

// GetID returns the time interval id.
func (t *TimeInterval) GetID() int { return t.ID }

// SetID sets the time interval id.
func (t *TimeInterval) SetID(id int) { t.ID = id }

// Validate requires a label and a non-negative duration.
func (t *TimeInterval) Validate() error {
	if err := requireName("time interval", t.Label); err != nil {
		return err
	}
	if t.Minutes < 0 {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, "time interval minutes must not be negative")
	}
	return nil
}

func requireName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return rerrors.New(rerrors.ErrCodeInvalidRequest, kind+" name is required")
	}
	return nil
}
