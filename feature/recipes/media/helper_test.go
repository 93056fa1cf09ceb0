package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/reconcile"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/models"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHelper(t *testing.T, maxSize int64) (*Helper, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := Config{
		BasePath:           t.TempDir(),
		ImagesSubdirectory: "images",
		MaxImageSizeBytes:  maxSize,
		ThumbnailWidth:     16,
	}
	return NewHelper(cfg, storage.NewLocal(), zap.New(core)), logs
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Media{}))
	return db
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(64, 32, color.NRGBA{R: 255, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestGenerateSingleMediaPath_Deterministic(t *testing.T) {
	a := GenerateSingleMediaPath("/srv/media/images", 4, 17)
	b := GenerateSingleMediaPath("/srv/media/images", 4, 17)

	assert.Equal(t, a, b)
	assert.Equal(t, filepath.Join("/srv/media/images", "4", "17", "media-17"), a)
}

func TestParseMediaPath(t *testing.T) {
	root := "/srv/media/images"

	r, m, ok := ParseMediaPath(root, GenerateSingleMediaPath(root, 4, 17))
	require.True(t, ok)
	assert.Equal(t, 4, r)
	assert.Equal(t, 17, m)

	_, _, ok = ParseMediaPath(root, GenerateThumbnailPath(root, 4, 17))
	assert.False(t, ok)
	_, _, ok = ParseMediaPath(root, filepath.Join(root, "4", "17", "media-18"))
	assert.False(t, ok)
	_, _, ok = ParseMediaPath(root, "/elsewhere/4/17/media-17")
	assert.False(t, ok)

	assert.True(t, IsThumbnail(GenerateThumbnailPath(root, 4, 17)))
}

func TestUserMediasRoot(t *testing.T) {
	h := NewHelper(Config{BasePath: "/srv/media", ImagesSubdirectory: "images"}, storage.NewLocal(), zap.NewNop())

	assert.Equal(t, filepath.Join("/srv/media", "images"), h.UserMediasRoot())
	assert.Equal(t, GenerateSingleMediaPath(h.UserMediasRoot(), 1, 2), h.PathFor(1, 2))
}

func TestDecodeContent(t *testing.T) {
	data, err := DecodeContent("data:image/png;base64," + b64("png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	data, err = DecodeContent(b64("raw"))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), data)

	_, err = DecodeContent("data:image/png,plain")
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodeInvalidRequest))

	_, err = DecodeContent("not base64!")
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodeInvalidRequest))
}

func TestEncodeDataURL_RoundTrip(t *testing.T) {
	img := pngBytes(t)
	url := EncodeDataURL(img)

	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	back, err := DecodeContent(url)
	require.NoError(t, err)
	assert.Equal(t, img, back)
}

func TestSaveImagesLocally(t *testing.T) {
	h, _ := setupHelper(t, 10)
	items := []*models.Media{
		{ID: 1, RecipeID: 4, Content: b64("small")},
		{ID: 2, RecipeID: 4, Content: b64("far too large payload")},
		{ID: 3, RecipeID: 4},
		{ID: 4, RecipeID: 4, Content: b64("tiny")},
	}

	saved, outcome := h.SaveImagesLocally(context.Background(), items)

	require.Len(t, saved, 2)
	assert.Equal(t, 2, outcome.Saved)
	require.Len(t, outcome.Rejected, 1)
	assert.Equal(t, 2, outcome.Rejected[0].MediaID)
	assert.Equal(t, rerrors.ErrCodePayloadTooLarge, outcome.Rejected[0].Code)
	assert.False(t, outcome.OK())

	for _, m := range saved {
		assert.Equal(t, h.PathFor(4, m.ID), m.Path)
		assert.FileExists(t, m.Path)
	}
	assert.Empty(t, items[1].Path)
	assert.NoFileExists(t, h.PathFor(4, 2))
}

func TestSaveImagesLocally_RequiresID(t *testing.T) {
	h, _ := setupHelper(t, 0)

	saved, outcome := h.SaveImagesLocally(context.Background(), []*models.Media{{RecipeID: 4, Content: b64("x")}})

	assert.Empty(t, saved)
	require.Len(t, outcome.Rejected, 1)
	assert.Equal(t, rerrors.ErrCodeInvalidRequest, outcome.Rejected[0].Code)
	assert.True(t, rerrors.IsCode(outcome.Err(), rerrors.ErrCodeInvalidRequest))
}

func TestSaveImagesLocally_WritesThumbnailForImages(t *testing.T) {
	h, _ := setupHelper(t, 0)
	img := pngBytes(t)

	_, outcome := h.SaveImagesLocally(context.Background(), []*models.Media{
		{ID: 1, RecipeID: 4, Content: EncodeDataURL(img)},
		{ID: 2, RecipeID: 4, Content: b64("plain text")},
	})
	require.True(t, outcome.OK())

	thumb, err := imaging.Open(GenerateThumbnailPath(h.UserMediasRoot(), 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 16, thumb.Bounds().Dx())
	assert.NoFileExists(t, GenerateThumbnailPath(h.UserMediasRoot(), 4, 2))
}

func TestLocateAndLoadMedias_SkipsMissing(t *testing.T) {
	h, logs := setupHelper(t, 0)
	ctx := context.Background()
	present := &models.Media{ID: 1, RecipeID: 4, Content: b64("hello")}
	_, outcome := h.SaveImagesLocally(ctx, []*models.Media{present})
	require.True(t, outcome.OK())
	present.Content = ""

	missing := &models.Media{ID: 2, RecipeID: 4, Path: h.PathFor(4, 2)}
	loaded := h.LocateAndLoadMedias(ctx, []*models.Media{present, missing, {ID: 3}})

	require.Len(t, loaded, 1)
	assert.Equal(t, 1, loaded[0].ID)
	assert.Equal(t, "data:text/plain; charset=utf-8;base64,"+b64("hello"), loaded[0].Content)
	assert.Empty(t, present.Content)
	assert.Equal(t, 1, logs.FilterMessage("Media file missing").Len())
}

func TestPersistNew_TwoPhase(t *testing.T) {
	h, _ := setupHelper(t, 0)
	db := setupDB(t)
	ctx := context.Background()

	stored, writes, err := h.PersistNew(ctx, db, models.PendingMedia{RecipeID: 4, Title: "top", Content: []byte("bytes")})
	require.NoError(t, err)
	assert.Equal(t, 2, writes)

	assert.NotZero(t, stored.ID)
	assert.Equal(t, h.PathFor(4, stored.ID), stored.Path)

	var row models.Media
	require.NoError(t, db.First(&row, stored.ID).Error)
	assert.Equal(t, stored.Path, row.Path)
	assert.Equal(t, "top", row.Title)

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)
}

func TestPersistNew_TooLargeInsertsNothing(t *testing.T) {
	h, _ := setupHelper(t, 2)
	db := setupDB(t)

	_, _, err := h.PersistNew(context.Background(), db, models.PendingMedia{RecipeID: 4, Content: []byte("bytes")})
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodePayloadTooLarge))

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemove_LogsDeletedOnce(t *testing.T) {
	h, logs := setupHelper(t, 0)
	ctx := context.Background()
	m := &models.Media{ID: 7, RecipeID: 4, Content: EncodeDataURL(pngBytes(t))}
	_, outcome := h.SaveImagesLocally(ctx, []*models.Media{m})
	require.True(t, outcome.OK())

	require.NoError(t, h.Remove(ctx, m.Stored()))

	assert.NoFileExists(t, m.Path)
	assert.NoFileExists(t, GenerateThumbnailPath(h.UserMediasRoot(), 4, 7))
	deleted := logs.FilterMessageSnippet("DELETED")
	require.Equal(t, 1, deleted.Len())
	assert.Equal(t, int64(7), deleted.All()[0].ContextMap()["media_id"])
	assert.Equal(t, m.Path, deleted.All()[0].ContextMap()["path"])
}

func TestRemove_AbsentFileIsNotAnError(t *testing.T) {
	h, logs := setupHelper(t, 0)

	err := h.Remove(context.Background(), models.StoredMedia{ID: 3, RecipeID: 4})

	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessageSnippet("DELETED").Len())
	assert.Equal(t, 1, logs.FilterMessage("Media file already absent").Len())
}

type failingBlobs struct {
	storage.Blobs
}

func (failingBlobs) Remove(ctx context.Context, key string) error {
	return errors.New("permission denied")
}

func TestRemove_FailureIsFileIO(t *testing.T) {
	h := NewHelper(Config{BasePath: t.TempDir()}, failingBlobs{storage.NewLocal()}, zap.NewNop())

	err := h.Remove(context.Background(), models.StoredMedia{ID: 3, RecipeID: 4, Path: "x"})
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodeFileIO))
}

func TestPrepare(t *testing.T) {
	h, _ := setupHelper(t, 8)
	ctx := context.Background()
	stored := &models.Media{ID: 1, RecipeID: 4, Content: b64("same")}
	_, outcome := h.SaveImagesLocally(ctx, []*models.Media{stored})
	require.True(t, outcome.OK())
	stored.Content = ""

	desired := []*models.Media{
		{ID: 1, RecipeID: 4, Path: "client/path", Content: b64("same")},
		{RecipeID: 4, Content: b64("new")},
		{RecipeID: 4, Content: b64("oversized payload")},
		{RecipeID: 4},
	}

	kept, outcome := h.Prepare(ctx, desired, []*models.Media{stored})

	require.Len(t, kept, 2)
	assert.Equal(t, stored.Path, kept[0].Path)
	assert.Empty(t, kept[0].Content)
	assert.Equal(t, b64("new"), kept[1].Content)

	require.Len(t, outcome.Rejected, 2)
	assert.Equal(t, rerrors.ErrCodePayloadTooLarge, outcome.Rejected[0].Code)
	assert.Equal(t, rerrors.ErrCodeInvalidRequest, outcome.Rejected[1].Code)
}

func TestPrepare_OversizedReplacementKeepsStoredFile(t *testing.T) {
	h, _ := setupHelper(t, 4)
	stored := &models.Media{ID: 1, RecipeID: 4, Path: "p"}
	desired := []*models.Media{{ID: 1, RecipeID: 4, Content: b64("oversized")}}

	kept, outcome := h.Prepare(context.Background(), desired, []*models.Media{stored})

	require.Len(t, kept, 1)
	assert.Empty(t, kept[0].Content)
	assert.Equal(t, "p", kept[0].Path)
	require.Len(t, outcome.Rejected, 1)
	assert.Equal(t, rerrors.ErrCodePayloadTooLarge, outcome.Rejected[0].Code)
}

func flush(t *testing.T, db *gorm.DB, cs *reconcile.ChangeSet) error {
	t.Helper()
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := cs.Flush(context.Background(), tx)
		return err
	})
	if err == nil {
		cs.Committed()
	}
	return err
}

func TestStager_InsertUpdateDelete(t *testing.T) {
	h, logs := setupHelper(t, 0)
	db := setupDB(t)
	ctx := context.Background()

	keep, _, err := h.PersistNew(ctx, db, models.PendingMedia{RecipeID: 4, Title: "keep", Content: []byte("old")})
	require.NoError(t, err)
	drop, _, err := h.PersistNew(ctx, db, models.PendingMedia{RecipeID: 4, Title: "drop", Content: []byte("gone")})
	require.NoError(t, err)

	current := []*models.Media{keep.Media(), drop.Media()}
	desired := []*models.Media{
		{ID: keep.ID, RecipeID: 4, Title: "keep", Content: b64("new")},
		{RecipeID: 4, Title: "fresh", Content: b64("fresh")},
	}
	desired, outcome := h.Prepare(ctx, desired, current)
	require.True(t, outcome.OK())

	cs := reconcile.NewChangeSet()
	summary, err := reconcile.Reconcile[*models.Media](cs, "medias", desired, current, h.Stager())
	require.NoError(t, err)
	assert.Equal(t, reconcile.PlanSummary{Collection: "medias", Added: 1, Updated: 1, Deleted: 1}, summary)
	require.NoError(t, flush(t, db, cs))

	data, err := os.ReadFile(keep.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
	assert.NoFileExists(t, drop.Path)

	fresh := desired[1]
	assert.NotZero(t, fresh.ID)
	assert.Equal(t, h.PathFor(4, fresh.ID), fresh.Path)
	assert.FileExists(t, fresh.Path)

	var rows []models.Media
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, keep.Path, rows[0].Path)
	assert.Equal(t, fresh.Path, rows[1].Path)

	deleted := logs.FilterMessageSnippet("DELETED")
	require.Equal(t, 1, deleted.Len())
	assert.Equal(t, int64(drop.ID), deleted.All()[0].ContextMap()["media_id"])
}

func TestStager_RollbackRestoresFiles(t *testing.T) {
	h, logs := setupHelper(t, 0)
	db := setupDB(t)
	ctx := context.Background()

	keep, _, err := h.PersistNew(ctx, db, models.PendingMedia{RecipeID: 4, Content: []byte("old")})
	require.NoError(t, err)
	drop, _, err := h.PersistNew(ctx, db, models.PendingMedia{RecipeID: 4, Content: []byte("gone")})
	require.NoError(t, err)

	current := []*models.Media{keep.Media(), drop.Media()}
	desired := []*models.Media{
		{ID: keep.ID, RecipeID: 4, Content: b64("new")},
		{RecipeID: 4, Content: b64("fresh")},
	}

	cs := reconcile.NewChangeSet()
	_, err = reconcile.Reconcile[*models.Media](cs, "medias", desired, current, h.Stager())
	require.NoError(t, err)
	cs.Run(reconcile.WithBefore(func(ctx context.Context, tx *gorm.DB) error {
		return errors.New("commit refused")
	}))

	require.Error(t, flush(t, db, cs))

	data, err := os.ReadFile(keep.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), data)
	data, err = os.ReadFile(drop.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("gone"), data)

	files, err := h.Blobs().List(ctx, h.UserMediasRoot())
	require.NoError(t, err)
	assert.Len(t, files, 2)

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// The delete never took effect.
	assert.Zero(t, logs.FilterMessageSnippet("DELETED").Len())
}
