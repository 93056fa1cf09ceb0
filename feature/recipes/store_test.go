package recipes

import (
	"context"
	"errors"
	"testing"

	"recipe-manager/core/cache"
	rerrors "recipe-manager/core/errors"
	"recipe-manager/core/reconcile"
	"recipe-manager/core/storage"
	"recipe-manager/feature/recipes/media"
	"recipe-manager/feature/recipes/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_FindRecipeFailureIsPersistence(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `recipes`").WillReturnError(errors.New("connection reset"))

	svc := NewService(NewStore(db), media.NewHelper(media.Config{}, storage.NewLocal(), zap.NewNop()),
		cache.New(cache.Config{}, zap.NewNop()), zap.NewNop())
	res := svc.UpdateOne(context.Background(), &models.Recipe{ID: 4, ShortTitle: "Brownies"})

	assert.False(t, res.Success)
	assert.Equal(t, rerrors.ErrCodePersistence, res.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindRecipeNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `recipes`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r, err := NewStore(db).FindRecipe(context.Background(), 4)

	assert.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CommitRollsBackOnConstraintViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ingredients`").WillReturnError(errors.New("Error 1452: foreign key constraint fails"))
	mock.ExpectRollback()

	var undone bool
	cs := reconcile.NewChangeSet()
	cs.OnRollback(func() { undone = true })
	cs.Insert(&models.Ingredient{Name: "Flour", Quantity: 1, RecipeID: 4})

	changes, err := NewStore(db).Commit(context.Background(), cs)

	assert.Zero(t, changes)
	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodePersistence))
	assert.True(t, undone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CommitFailureAfterFlushRunsCompensations(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `ingredients`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

	var undone bool
	cs := reconcile.NewChangeSet()
	cs.OnRollback(func() { undone = true })
	cs.Delete(&models.Ingredient{ID: 1})

	_, err := NewStore(db).Commit(context.Background(), cs)

	assert.True(t, rerrors.IsCode(err, rerrors.ErrCodePersistence))
	assert.True(t, undone)
	require.NoError(t, mock.ExpectationsWereMet())
}
