package media

import (
	"context"
	"errors"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/reconcile"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/models"

	"gorm.io/gorm"
)

// Stager returns the reconcile stager for media. Inserts run the two-phase
// save, updates replace the file when new content is present and deletes
// remove the file before the row. Every file change registers a compensation
// on the change set.
func (h *Helper) Stager() reconcile.Stager[*models.Media] {
	return mediaStager{h: h}
}

type mediaStager struct {
	h *Helper
}

func (s mediaStager) StageInsert(cs *reconcile.ChangeSet, m *models.Media) {
	cs.Exec(func(ctx context.Context, tx *gorm.DB) (int, error) {
		return s.h.insert(ctx, tx, cs, m)
	})
}

func (s mediaStager) StageUpdate(cs *reconcile.ChangeSet, current, desired *models.Media) {
	if desired.Content == "" {
		desired.Path = current.Path
		cs.Update(desired)
		return
	}
	cs.Update(desired, reconcile.WithBefore(func(ctx context.Context, tx *gorm.DB) error {
		return s.h.replace(ctx, cs, current, desired)
	}))
}

func (s mediaStager) StageDelete(cs *reconcile.ChangeSet, m *models.Media) {
	s.h.StageRemoval(cs, m)
}

// StageRemoval stages the deletion of a media row preceded by its file.
func (h *Helper) StageRemoval(cs *reconcile.ChangeSet, m *models.Media) {
	cs.Delete(m, reconcile.WithBefore(h.removal(cs, m)))
}

// StageFileRemoval stages the deletion of a media file alone; the row is left
// to a later operation. The DELETED record is logged once the change set commits.
func (h *Helper) StageFileRemoval(cs *reconcile.ChangeSet, m *models.Media) {
	cs.Run(reconcile.WithBefore(h.removal(cs, m)))
}

func (h *Helper) removal(cs *reconcile.ChangeSet, m *models.Media) reconcile.Hook {
	return func(ctx context.Context, tx *gorm.DB) error {
		stored := m.Stored()
		if stored.Path != "" {
			if old, err := h.blobs.Read(ctx, stored.Path); err == nil {
				bg := context.WithoutCancel(ctx)
				cs.OnRollback(func() { h.restore(bg, stored.RecipeID, stored.ID, stored.Path, old) })
			}
		}
		path, err := h.remove(ctx, stored)
		if err != nil {
			return err
		}
		cs.OnCommit(func() { h.logDeleted(stored.ID, path) })
		return nil
	}
}

func (h *Helper) insert(ctx context.Context, tx *gorm.DB, cs *reconcile.ChangeSet, m *models.Media) (int, error) {
	data, err := DecodeContent(m.Content)
	if err != nil {
		return 0, err
	}

	stored, n, err := h.PersistNew(ctx, tx, models.PendingMedia{
		RecipeID: m.RecipeID,
		Title:    m.Title,
		Tag:      m.Tag,
		Content:  data,
	})
	if err != nil {
		return 0, err
	}

	bg := context.WithoutCancel(ctx)
	cs.OnRollback(func() { h.discard(bg, stored.RecipeID, stored.ID, stored.Path) })

	m.ID = stored.ID
	m.Path = stored.Path
	m.Content = ""
	return n, nil
}

// replace swaps the stored file of current for the content of desired:
// the old file goes first, then the new one is written, then the path is set.
func (h *Helper) replace(ctx context.Context, cs *reconcile.ChangeSet, current, desired *models.Media) error {
	if _, err := h.accept(desired); err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	target := h.PathFor(desired.RecipeID, desired.ID)
	restorable := false

	if current.Path != "" {
		old, err := h.blobs.Read(ctx, current.Path)
		switch {
		case err == nil:
			cs.OnRollback(func() { h.restore(bg, current.RecipeID, current.ID, current.Path, old) })
			restorable = true
		case !errors.Is(err, storage.ErrBlobNotFound):
			return rerrors.WrapWithContext(rerrors.ErrCodeFileIO, "failed to read media file", err,
				map[string]any{"media_id": current.ID, "path": current.Path})
		}

		if current.Path != target {
			if err := h.blobs.Remove(ctx, current.Path); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
				return rerrors.WrapWithContext(rerrors.ErrCodeFileIO, "failed to delete media file", err,
					map[string]any{"media_id": current.ID, "path": current.Path})
			}
		}
	}

	if _, outcome := h.SaveImagesLocally(ctx, []*models.Media{desired}); !outcome.OK() {
		return outcome.Err()
	}
	if path := desired.Path; path != current.Path || !restorable {
		cs.OnRollback(func() { h.discard(bg, desired.RecipeID, desired.ID, path) })
	}

	desired.Content = ""
	return nil
}
