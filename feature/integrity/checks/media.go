package checks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"go.uber.org/zap"
)

// MediaReport compares media rows with the files under the media root.
type MediaReport struct {
	Root         string       `json:"root"`
	Rows         int          `json:"rows"`
	Files        int          `json:"files"`
	MissingFiles []MediaIssue `json:"missing_files"`
	Mismatched   []MediaIssue `json:"mismatched_paths"`
	Orphans      []string     `json:"orphans"`
	Stray        []string     `json:"stray"`
	Purged       []string     `json:"purged,omitempty"`
}

// MediaIssue describes one media row that does not match storage.
type MediaIssue struct {
	MediaID  int    `json:"media_id"`
	RecipeID int    `json:"recipe_id"`
	Path     string `json:"path"`
	Expected string `json:"expected,omitempty"`
}

// Clean reports whether rows and files agree. Stray files are reported but
// do not make a report dirty.
func (r *MediaReport) Clean() bool {
	return len(r.MissingFiles) == 0 && len(r.Mismatched) == 0 && len(r.Orphans) == 0
}

// CheckMedia lists every blob under root and matches it against rows.
// An unreferenced media file is an orphan when its key has the derived
// layout and stray otherwise. A thumbnail is only an orphan when no row owns
// its directory.
func CheckMedia(ctx context.Context, blobs storage.Blobs, root string, rows []models.Media) (*MediaReport, error) {
	keys, err := blobs.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list media root: %w", err)
	}

	report := &MediaReport{
		Root:         root,
		Rows:         len(rows),
		Files:        len(keys),
		MissingFiles: []MediaIssue{},
		Mismatched:   []MediaIssue{},
		Orphans:      []string{},
		Stray:        []string{},
	}

	present := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		present[filepath.Clean(k)] = struct{}{}
	}

	referenced := make(map[string]struct{}, len(rows))
	owned := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		expected := media.GenerateSingleMediaPath(root, row.RecipeID, row.ID)
		issue := MediaIssue{MediaID: row.ID, RecipeID: row.RecipeID, Path: row.Path}

		if row.Path != "" && filepath.Clean(row.Path) != expected {
			issue.Expected = expected
			report.Mismatched = append(report.Mismatched, issue)
		}
		if row.Path == "" {
			report.MissingFiles = append(report.MissingFiles, issue)
			continue
		}
		path := filepath.Clean(row.Path)
		if _, ok := present[path]; !ok {
			report.MissingFiles = append(report.MissingFiles, issue)
		}
		referenced[path] = struct{}{}
		owned[filepath.Dir(path)] = struct{}{}
	}

	for _, k := range keys {
		k = filepath.Clean(k)
		if media.IsThumbnail(k) {
			if _, ok := owned[filepath.Dir(k)]; !ok {
				report.Orphans = append(report.Orphans, k)
			}
			continue
		}
		if _, ok := referenced[k]; ok {
			continue
		}
		if _, _, ok := media.ParseMediaPath(root, k); ok {
			report.Orphans = append(report.Orphans, k)
		} else {
			report.Stray = append(report.Stray, k)
		}
	}
	sort.Strings(report.Orphans)
	sort.Strings(report.Stray)

	return report, nil
}

// PurgeOrphans removes the orphan files of a report. Stray files are left alone.
func PurgeOrphans(ctx context.Context, blobs storage.Blobs, logger *zap.Logger, report *MediaReport) error {
	for _, key := range report.Orphans {
		err := blobs.Remove(ctx, key)
		if err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
			logger.Error("Failed to purge orphan", zap.String("path", key), zap.Error(err))
			return err
		}
		report.Purged = append(report.Purged, key)
		logger.Info("Purged orphan media file", zap.String("path", key))
	}
	return nil
}
