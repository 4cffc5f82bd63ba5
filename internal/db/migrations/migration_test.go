package migrations

import (
	"testing"
	"time"

	"settings-ui/internal/models"
	"settings-ui/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.SystemSetting{}, &models.SettingSnapshot{}))
	return db
}

func storedValue(t *testing.T, db *gorm.DB, key string) types.Value {
	t.Helper()
	var row models.SystemSetting
	require.NoError(t, db.Where("setting_key = ?", key).First(&row).Error)
	v, err := types.UnmarshalTagged(row.SettingValue)
	require.NoError(t, err)
	return v
}

func TestTagLegacyValues(t *testing.T) {
	db := openTestDB(t)

	rows := []models.SystemSetting{
		{SettingKey: "app_name", SettingValue: datatypes.JSON(`"Legacy App"`), ValueKind: models.ValueKindTagged},
		{SettingKey: "retries", SettingValue: datatypes.JSON(`5`), ValueKind: models.ValueKindTagged},
		{SettingKey: "ratio", SettingValue: datatypes.JSON(`0.5`), ValueKind: models.ValueKindTagged},
		{SettingKey: "tagged", SettingValue: datatypes.JSON(`{"kind":"bool","value":true}`), ValueKind: models.ValueKindTagged},
		{SettingKey: "raw", SettingValue: datatypes.JSON(`not json`), ValueKind: models.ValueKindTagged},
	}
	require.NoError(t, db.Create(&rows).Error)

	require.NoError(t, V1_1_0_TagLegacyValues(db))

	assert.True(t, types.Text("Legacy App").Equal(storedValue(t, db, "app_name")))
	assert.True(t, types.Int(5).Equal(storedValue(t, db, "retries")))
	assert.True(t, types.Float(0.5).Equal(storedValue(t, db, "ratio")))
	assert.True(t, types.Bool(true).Equal(storedValue(t, db, "tagged")))
	assert.True(t, types.Text("not json").Equal(storedValue(t, db, "raw")))

	done, err := hasRun(db, tagLegacyValuesKey)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestTagLegacyValuesRunsOnce(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, V1_1_0_TagLegacyValues(db))

	require.NoError(t, db.Create(&models.SystemSetting{
		SettingKey: "late", SettingValue: datatypes.JSON(`"x"`), ValueKind: models.ValueKindTagged,
	}).Error)
	require.NoError(t, V1_1_0_TagLegacyValues(db))

	var row models.SystemSetting
	require.NoError(t, db.Where("setting_key = ?", "late").First(&row).Error)
	assert.JSONEq(t, `"x"`, string(row.SettingValue))
}

func TestMigrateDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, MigrateDatabase(db))
	require.NoError(t, MigrateDatabase(db))
	assert.True(t, db.Migrator().HasColumn(&models.SystemSetting{}, "value_kind"))
}

func TestMigrateDatabaseWithNumericLegacyRows(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()
	require.NoError(t, db.Exec(
		"INSERT INTO system_settings (setting_key, setting_value, value_kind, created_at, updated_at) VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)",
		"max_items", "42", models.ValueKindTagged, now, now,
		"threshold", "1.25", models.ValueKindTagged, now, now,
	).Error)

	require.NoError(t, MigrateDatabase(db))

	assert.True(t, types.Int(42).Equal(storedValue(t, db, "max_items")))
	assert.True(t, types.Float(1.25).Equal(storedValue(t, db, "threshold")))
}
