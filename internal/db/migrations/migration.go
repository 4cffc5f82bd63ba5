// Package migrations upgrades the settings tables between releases.
package migrations

import (
	"fmt"

	"settings-ui/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MigrateDatabase creates the tables and runs data migrations in release order.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SystemSetting{}, &models.SettingSnapshot{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	if err := V1_1_0_TagLegacyValues(db); err != nil {
		return err
	}
	return nil
}

// hasRun reports whether a marker row exists for the migration.
func hasRun(tx *gorm.DB, migrationKey string) (bool, error) {
	var count int64
	if err := tx.Model(&models.SystemSetting{}).Where("setting_key = ?", migrationKey).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// markDone records the marker row of a migration.
func markDone(tx *gorm.DB, migrationKey, description string) error {
	marker := models.SystemSetting{
		SettingKey:   migrationKey,
		SettingValue: datatypes.JSON("true"),
		ValueKind:    models.ValueKindMarker,
		Description:  description,
	}
	if err := tx.Create(&marker).Error; err != nil {
		return fmt.Errorf("failed to record migration completion: %w", err)
	}
	return nil
}
