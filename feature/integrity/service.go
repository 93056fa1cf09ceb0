package integrity

import (
	"context"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/feature/integrity/checks"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	media  *media.Helper
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, helper *media.Helper, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		media:  helper,
		logger: logger,
	}
}

// CheckMedia compares every media row with the stored files.
func (s *Service) CheckMedia(ctx context.Context) (*checks.MediaReport, error) {
	var rows []models.Media
	err := s.db.WithContext(ctx).
		Model(&models.Media{}).
		Select("id", "recipe_id", "path").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodePersistence, "failed to load media rows", err)
	}
	return checks.CheckMedia(ctx, s.media.Blobs(), s.media.UserMediasRoot(), rows)
}

// PurgeOrphans removes the orphan files listed in report.
func (s *Service) PurgeOrphans(ctx context.Context, report *checks.MediaReport) error {
	return checks.PurgeOrphans(ctx, s.media.Blobs(), s.logger, report)
}

// CheckSchema verifies that every model table carries its columns.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}
