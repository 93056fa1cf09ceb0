package integrity

import (
	"context"
	"path/filepath"
	"testing"

	"recipe-manager/core/database"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	helper *media.Helper
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))

	helper := media.NewHelper(media.Config{
		BasePath:           t.TempDir(),
		ImagesSubdirectory: "images",
	}, storage.NewLocal(), zap.NewNop())

	return &fixture{db: db, helper: helper, svc: NewService(db, helper, zap.NewNop())}
}

// seed inserts a recipe with one media row and writes its file.
func (f *fixture) seed(t *testing.T) *models.Media {
	recipe := &models.Recipe{ShortTitle: "Soup"}
	require.NoError(t, f.db.Create(recipe).Error)

	m := &models.Media{RecipeID: recipe.ID, Title: "bowl"}
	require.NoError(t, f.db.Create(m).Error)

	m.Path = f.helper.PathFor(recipe.ID, m.ID)
	require.NoError(t, f.db.Model(m).Update("path", m.Path).Error)
	require.NoError(t, f.helper.Blobs().Write(context.Background(), m.Path, []byte("png")))
	return m
}

func TestService_CheckMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.seed(t)

	report, err := f.svc.CheckMedia(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.Equal(t, 1, report.Rows)
	assert.Equal(t, 1, report.Files)

	require.NoError(t, f.helper.Blobs().Remove(ctx, m.Path))
	report, err = f.svc.CheckMedia(ctx)
	require.NoError(t, err)
	require.Len(t, report.MissingFiles, 1)
	assert.Equal(t, m.ID, report.MissingFiles[0].MediaID)
}

func TestService_PurgeOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t)

	orphan := filepath.Join(f.helper.UserMediasRoot(), "99", "5", "media-5")
	require.NoError(t, f.helper.Blobs().Write(ctx, orphan, []byte("stale")))

	report, err := f.svc.CheckMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, report.Orphans)

	require.NoError(t, f.svc.PurgeOrphans(ctx, report))
	assert.Equal(t, []string{orphan}, report.Purged)

	report, err = f.svc.CheckMedia(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestService_CheckMedia_DatabaseFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Migrator().DropTable(&models.Media{}))

	report, err := f.svc.CheckMedia(context.Background())
	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "PERSISTENCE")
}

func TestService_CheckSchema(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.CheckSchema()
	require.NoError(t, err)
	assert.True(t, report.Matched)

	require.NoError(t, f.db.Migrator().DropTable(&models.RecipeCategory{}))
	report, err = f.svc.CheckSchema()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, "missing_table", report.Tables[models.RecipeCategory{}.TableName()].Status)
}
