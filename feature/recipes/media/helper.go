package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/models"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Helper owns the lifecycle of media files: path derivation, writes, loads and deletes.
type Helper struct {
	cfg    Config
	blobs  storage.Blobs
	logger *zap.Logger
}

// NewHelper creates a media helper writing through blobs.
func NewHelper(cfg Config, blobs storage.Blobs, logger *zap.Logger) *Helper {
	return &Helper{cfg: cfg, blobs: blobs, logger: logger}
}

// UserMediasRoot returns the directory holding every recipe's media.
func (h *Helper) UserMediasRoot() string {
	return filepath.Join(h.cfg.BasePath, h.cfg.ImagesSubdirectory)
}

// PathFor derives the media file path under UserMediasRoot.
func (h *Helper) PathFor(recipeID, mediaID int) string {
	return GenerateSingleMediaPath(h.UserMediasRoot(), recipeID, mediaID)
}

// Blobs returns the underlying blob store.
func (h *Helper) Blobs() storage.Blobs {
	return h.blobs
}

// SaveImagesLocally writes the content of every item that has an id and a
// payload, and sets its path. Items without content are skipped; items that
// are too large or fail to write are reported in the outcome and left unchanged.
func (h *Helper) SaveImagesLocally(ctx context.Context, items []*models.Media) ([]*models.Media, SaveOutcome) {
	var saved []*models.Media
	var outcome SaveOutcome

	for _, m := range items {
		if m.Content == "" {
			continue
		}
		if m.ID == 0 {
			outcome.reject(m, rerrors.New(rerrors.ErrCodeInvalidRequest, "media has no id to derive a path from"))
			continue
		}

		data, err := DecodeContent(m.Content)
		if err != nil {
			outcome.reject(m, err)
			continue
		}

		path, err := h.write(ctx, m.RecipeID, m.ID, data)
		if err != nil {
			outcome.reject(m, err)
			continue
		}

		m.Path = path
		saved = append(saved, m)
		outcome.Saved++
	}

	return saved, outcome
}

// LocateAndLoadMedias returns copies of items with their file content as a
// data url. Items whose file is missing or unreadable are skipped.
func (h *Helper) LocateAndLoadMedias(ctx context.Context, items []*models.Media) []*models.Media {
	loaded := make([]*models.Media, 0, len(items))

	for _, m := range items {
		if m.Path == "" {
			h.logger.Warn("Media has no path", zap.Int("media_id", m.ID))
			continue
		}

		data, err := h.blobs.Read(ctx, m.Path)
		if errors.Is(err, storage.ErrBlobNotFound) {
			h.logger.Warn("Media file missing", zap.Int("media_id", m.ID), zap.String("path", m.Path))
			continue
		}
		if err != nil {
			h.logger.Warn("Media file unreadable", zap.Int("media_id", m.ID), zap.String("path", m.Path), zap.Error(err))
			continue
		}

		cp := *m
		cp.Content = EncodeDataURL(data)
		loaded = append(loaded, &cp)
	}

	return loaded
}

// PersistNew runs the two-phase save of a new media item on tx: it inserts a
// row with an empty path, derives the path from the assigned id, writes the
// file and patches the path column. It returns the rows written on tx.
// A file written before a failed patch is removed.
func (h *Helper) PersistNew(ctx context.Context, tx *gorm.DB, p models.PendingMedia) (models.StoredMedia, int, error) {
	if err := h.checkSize(len(p.Content)); err != nil {
		return models.StoredMedia{}, 0, err
	}

	row := &models.Media{RecipeID: p.RecipeID, Title: p.Title, Tag: p.Tag}
	created := tx.WithContext(ctx).Create(row)
	if created.Error != nil {
		return models.StoredMedia{}, 0, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to insert media placeholder", created.Error)
	}

	path, err := h.write(ctx, row.RecipeID, row.ID, p.Content)
	if err != nil {
		return models.StoredMedia{}, 0, err
	}

	patched := tx.WithContext(ctx).Model(row).Update("path", path)
	if patched.Error != nil {
		h.discard(ctx, row.RecipeID, row.ID, path)
		return models.StoredMedia{}, 0, rerrors.WrapWithContext(rerrors.ErrCodePersistence, "failed to record media path", patched.Error,
			map[string]any{"media_id": row.ID, "path": path})
	}
	row.Path = path

	return row.Stored(), int(created.RowsAffected + patched.RowsAffected), nil
}

// Remove deletes the file of a stored media item and its thumbnail.
// A file that is already absent is not an error. Every call logs one DELETED record.
func (h *Helper) Remove(ctx context.Context, s models.StoredMedia) error {
	path, err := h.remove(ctx, s)
	if err != nil {
		return err
	}
	h.logDeleted(s.ID, path)
	return nil
}

func (h *Helper) remove(ctx context.Context, s models.StoredMedia) (string, error) {
	path := s.Path
	if path == "" {
		path = h.PathFor(s.RecipeID, s.ID)
	}

	err := h.blobs.Remove(ctx, path)
	switch {
	case errors.Is(err, storage.ErrBlobNotFound):
		h.logger.Warn("Media file already absent", zap.Int("media_id", s.ID), zap.String("path", path))
	case err != nil:
		return "", rerrors.WrapWithContext(rerrors.ErrCodeFileIO, "failed to delete media file", err,
			map[string]any{"media_id": s.ID, "path": path})
	}

	h.removeThumbnail(ctx, s.RecipeID, s.ID)
	return path, nil
}

func (h *Helper) logDeleted(mediaID int, path string) {
	h.logger.Info("DELETED media file", zap.Int("media_id", mediaID), zap.String("path", path))
}

// Prepare validates desired media against the stored ones before reconciliation.
//
// Desired items matching a stored id keep the stored path, and their content
// is dropped when it is identical to the stored file or cannot be accepted.
// New items without acceptable content are removed from the returned list.
// Every dropped payload is reported in the outcome.
func (h *Helper) Prepare(ctx context.Context, desired, current []*models.Media) ([]*models.Media, SaveOutcome) {
	currentByID := make(map[int]*models.Media, len(current))
	for _, m := range current {
		currentByID[m.ID] = m
	}

	var outcome SaveOutcome
	kept := make([]*models.Media, 0, len(desired))

	for _, m := range desired {
		cur, known := currentByID[m.ID]
		if m.ID != 0 && known {
			m.Path = cur.Path
			if m.Content != "" {
				data, err := h.accept(m)
				switch {
				case err != nil:
					outcome.reject(m, err)
					m.Content = ""
				case h.sameAsStored(ctx, cur, data):
					m.Content = ""
				}
			}
			kept = append(kept, m)
			continue
		}

		if m.Content == "" {
			outcome.reject(m, rerrors.New(rerrors.ErrCodeInvalidRequest, "new media has no content"))
			continue
		}
		if _, err := h.accept(m); err != nil {
			outcome.reject(m, err)
			continue
		}
		kept = append(kept, m)
	}

	return kept, outcome
}

func (h *Helper) accept(m *models.Media) ([]byte, error) {
	data, err := DecodeContent(m.Content)
	if err != nil {
		return nil, err
	}
	if err := h.checkSize(len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

func (h *Helper) sameAsStored(ctx context.Context, cur *models.Media, data []byte) bool {
	if cur.Path == "" {
		return false
	}
	stored, err := h.blobs.Read(ctx, cur.Path)
	if err != nil {
		return false
	}
	return bytes.Equal(stored, data)
}

func (h *Helper) checkSize(n int) error {
	if h.cfg.MaxImageSizeBytes > 0 && int64(n) > h.cfg.MaxImageSizeBytes {
		return rerrors.NewWithContext(rerrors.ErrCodePayloadTooLarge,
			fmt.Sprintf("media payload of %d bytes exceeds the %d byte limit", n, h.cfg.MaxImageSizeBytes),
			map[string]any{"size": n, "max": h.cfg.MaxImageSizeBytes})
	}
	return nil
}

// write stores data at the derived path and refreshes the thumbnail.
func (h *Helper) write(ctx context.Context, recipeID, mediaID int, data []byte) (string, error) {
	if err := h.checkSize(len(data)); err != nil {
		return "", err
	}

	path := h.PathFor(recipeID, mediaID)
	if err := h.blobs.Write(ctx, path, data); err != nil {
		h.logger.Error("Failed to write media file", zap.Int("media_id", mediaID), zap.String("path", path), zap.Error(err))
		return "", rerrors.WrapWithContext(rerrors.ErrCodeFileIO, "failed to write media file", err,
			map[string]any{"media_id": mediaID, "path": path})
	}

	h.writeThumbnail(ctx, recipeID, mediaID, data)
	return path, nil
}

func (h *Helper) writeThumbnail(ctx context.Context, recipeID, mediaID int, data []byte) {
	if h.cfg.ThumbnailWidth <= 0 {
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		h.logger.Debug("Media is not a decodable image, no thumbnail", zap.Int("media_id", mediaID))
		return
	}

	var buf bytes.Buffer
	thumb := imaging.Resize(img, h.cfg.ThumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		h.logger.Warn("Failed to encode thumbnail", zap.Int("media_id", mediaID), zap.Error(err))
		return
	}

	path := GenerateThumbnailPath(h.UserMediasRoot(), recipeID, mediaID)
	if err := h.blobs.Write(ctx, path, buf.Bytes()); err != nil {
		h.logger.Warn("Failed to write thumbnail", zap.Int("media_id", mediaID), zap.String("path", path), zap.Error(err))
	}
}

func (h *Helper) removeThumbnail(ctx context.Context, recipeID, mediaID int) {
	path := GenerateThumbnailPath(h.UserMediasRoot(), recipeID, mediaID)
	if err := h.blobs.Remove(ctx, path); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		h.logger.Warn("Failed to delete thumbnail", zap.Int("media_id", mediaID), zap.String("path", path), zap.Error(err))
	}
}

// discard removes a file written by a failed attempt. It does not log a DELETED record.
func (h *Helper) discard(ctx context.Context, recipeID, mediaID int, path string) {
	if err := h.blobs.Remove(ctx, path); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		h.logger.Warn("Failed to discard media file", zap.Int("media_id", mediaID), zap.String("path", path), zap.Error(err))
	}
	h.removeThumbnail(ctx, recipeID, mediaID)
}

// restore writes back bytes captured before an overwrite or delete.
func (h *Helper) restore(ctx context.Context, recipeID, mediaID int, path string, data []byte) {
	if err := h.blobs.Write(ctx, path, data); err != nil {
		h.logger.Error("Failed to restore media file", zap.Int("media_id", mediaID), zap.String("path", path), zap.Error(err))
		return
	}
	h.writeThumbnail(ctx, recipeID, mediaID, data)
}
