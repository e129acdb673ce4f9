package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/zipit/internal/database"
	"github.com/example/zipit/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createCategory(t *testing.T, db *gorm.DB, labelAm, labelRu string) models.Category {
	t.Helper()
	cat := models.Category{LabelAm: labelAm, LabelRu: labelRu}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func testVariant() VariantInput {
	return VariantInput{
		Src:           []string{"data:image/png;base64,iVBORw0KGgoAAAANSUhEUg"},
		SizeValue:     2,
		SizeUnit:      "cm",
		ColorAm:       "սև",
		ColorRu:       "чёрный",
		Price:         100,
		MinOrderValue: 1,
		MinOrderUnit:  "pcs",
		Available:     10,
	}
}

func rowCount(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
