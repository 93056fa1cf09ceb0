package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"recipe-manager/core/database"
	rerrors "recipe-manager/core/errors"
	"recipe-manager/feature/recipes/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, models.All()...))
	return db
}

func setupApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, NewFeature(db, zap.NewNop()).Load(app))
	return app
}

func send(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestRepository_CRUD(t *testing.T) {
	db := setupDB(t)
	repo := NewRepository[models.Category](db, nil)
	ctx := context.Background()

	c := &models.Category{ID: 42, Name: "Dessert"}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotEqual(t, 42, c.ID)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dessert", got.Name)

	updated, err := repo.Update(ctx, c.ID, &models.Category{Name: "Desserts"})
	require.NoError(t, err)
	assert.True(t, updated)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Desserts", all[0].Name)

	deleted, err := repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	missing, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err = repo.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	updated, err = repo.Update(ctx, 999, &models.Category{Name: "x"})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRepository_Validation(t *testing.T) {
	repo := NewRepository[models.Unit](setupDB(t), nil)

	err := repo.Create(context.Background(), &models.Unit{Symbol: "g"})
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodeInvalidRequest))
}

func TestDeleteUnitInUse(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Unit{ID: 1, Name: "gram", Symbol: "g"}).Error)
	require.NoError(t, db.Create(&models.Recipe{ID: 4, ShortTitle: "Cake",
		Ingredients: []*models.Ingredient{{Name: "Flour", Quantity: 100, UnitID: 1}}}).Error)

	repo := NewRepository[models.Unit](db, rejectUnitInUse)
	deleted, err := repo.Delete(ctx, 1)

	assert.False(t, deleted)
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodePersistence))
	unit, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, unit)
}

func TestDeleteCategoryRemovesLinks(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Create(&models.Category{ID: 3, Name: "Dessert"}).Error)
	require.NoError(t, db.Create(&models.Recipe{ID: 4, ShortTitle: "Cake",
		Categories: []*models.RecipeCategory{{CategoryID: 3}}}).Error)

	deleted, err := NewRepository[models.Category](db, unlinkCategory).Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, deleted)

	var links int64
	require.NoError(t, db.Model(&models.RecipeCategory{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestDeleteTimeIntervalDetachesRecipes(t *testing.T) {
	db := setupDB(t)
	interval := 2
	require.NoError(t, db.Create(&models.TimeInterval{ID: 2, Label: "Quick", Minutes: 15}).Error)
	require.NoError(t, db.Create(&models.Recipe{ID: 4, ShortTitle: "Cake", TimeIntervalID: &interval}).Error)

	deleted, err := NewRepository[models.TimeInterval](db, detachTimeInterval).Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	var r models.Recipe
	require.NoError(t, db.First(&r, 4).Error)
	assert.Nil(t, r.TimeIntervalID)
}

func TestHandlers(t *testing.T) {
	app := setupApp(t, setupDB(t))

	status, body := send(t, app, "POST", "/units", map[string]any{"name": "gram", "symbol": "g"})
	require.Equal(t, fiber.StatusCreated, status)
	var unit models.Unit
	require.NoError(t, json.Unmarshal(body, &unit))
	assert.NotZero(t, unit.ID)

	status, _ = send(t, app, "POST", "/units", map[string]any{"symbol": "g"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = send(t, app, "GET", "/units", nil)
	assert.Equal(t, fiber.StatusOK, status)
	var units []models.Unit
	require.NoError(t, json.Unmarshal(body, &units))
	assert.Len(t, units, 1)

	status, _ = send(t, app, "PUT", "/units/1", map[string]any{"name": "kilogram", "symbol": "kg"})
	assert.Equal(t, fiber.StatusOK, status)

	status, body = send(t, app, "GET", "/units/1", nil)
	assert.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &unit))
	assert.Equal(t, "kilogram", unit.Name)

	status, _ = send(t, app, "GET", "/units/9", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = send(t, app, "POST", "/time-intervals", map[string]any{"label": "Quick", "minutes": 15})
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = send(t, app, "POST", "/categories", map[string]any{"name": "Dessert"})
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = send(t, app, "DELETE", "/units/1", nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = send(t, app, "DELETE", "/units/1", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
