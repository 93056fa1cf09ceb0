package catalog

import (
	"context"
	"errors"

	rerrors "recipe-manager/core/errors"

	"gorm.io/gorm"
)

// Entity is a lookup row identified by an int id.
type Entity interface {
	GetID() int
	SetID(id int)
	Validate() error
}

// entityPtr constrains P to be *T implementing Entity.
type entityPtr[T any] interface {
	*T
	Entity
}

// DeleteHook runs inside the delete transaction before the row is removed.
type DeleteHook func(tx *gorm.DB, id int) error

// Repository provides CRUD over one lookup table.
type Repository[T any, P entityPtr[T]] struct {
	db       *gorm.DB
	onDelete DeleteHook
}

// NewRepository creates a repository. onDelete may be nil.
func NewRepository[T any, P entityPtr[T]](db *gorm.DB, onDelete DeleteHook) *Repository[T, P] {
	return &Repository[T, P]{db: db, onDelete: onDelete}
}

// List returns every row ordered by id.
func (r *Repository[T, P]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to list", err)
	}
	return out, nil
}

// Get returns the row with id, or nil when it does not exist.
func (r *Repository[T, P]) Get(ctx context.Context, id int) (P, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to load", err)
	}
	return P(&row), nil
}

// Create validates and inserts row; its id is assigned by the store.
func (r *Repository[T, P]) Create(ctx context.Context, row P) error {
	if err := row.Validate(); err != nil {
		return err
	}
	row.SetID(0)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return rerrors.Wrap(rerrors.ErrCodePersistence, "failed to create", err)
	}
	return nil
}

// Update overwrites the row with id. It returns false when the row does not exist.
func (r *Repository[T, P]) Update(ctx context.Context, id int, row P) (bool, error) {
	if err := row.Validate(); err != nil {
		return false, err
	}
	existing, err := r.Get(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}

	row.SetID(id)
	if err := r.db.WithContext(ctx).Model(row).Select("*").Updates(row).Error; err != nil {
		return false, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to update", err)
	}
	return true, nil
}

// Delete removes the row with id after running the delete hook.
// It returns false when the row does not exist.
func (r *Repository[T, P]) Delete(ctx context.Context, id int) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.onDelete != nil {
			if err := r.onDelete(tx, id); err != nil {
				return err
			}
		}
		var row T
		result := tx.Delete(&row, id)
		if result.Error != nil {
			return rerrors.Wrap(rerrors.ErrCodePersistence, "failed to delete", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
