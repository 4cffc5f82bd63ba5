package migrations

import (
	"settings-ui/internal/models"
	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const tagLegacyValuesKey = "v1.1.0_tag_legacy_values"

// V1_1_0_TagLegacyValues wraps overrides written before values carried their kind.
// A legacy payload that is valid JSON keeps its decoded type, anything else becomes text.
func V1_1_0_TagLegacyValues(db *gorm.DB) error {
	done, err := hasRun(db, tagLegacyValuesKey)
	if err != nil || done {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// SQLite gives the json column numeric affinity, so bare numbers come back as INTEGER or REAL.
		var rows []legacyRow
		if err := tx.Model(&models.SystemSetting{}).
			Select("id, "+textCast(tx, "setting_value")+" AS raw_value").
			Where("value_kind = ? OR value_kind = ?", models.ValueKindTagged, "").
			Scan(&rows).Error; err != nil {
			return err
		}

		converted := 0
		for _, row := range rows {
			raw := []byte(row.RawValue)
			if _, err := types.UnmarshalTagged(raw); err == nil {
				continue
			}

			value := legacyValue(raw)
			payload, err := types.MarshalTagged(value)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.SystemSetting{}).Where("id = ?", row.ID).Updates(map[string]any{
				"setting_value": datatypes.JSON(payload),
				"value_kind":    models.ValueKindTagged,
			}).Error; err != nil {
				return err
			}
			converted++
		}

		if converted > 0 {
			logrus.Infof("Tagged %d legacy setting values", converted)
		}
		return markDone(tx, tagLegacyValuesKey, "legacy value tagging marker")
	})
}

type legacyRow struct {
	ID       uint
	RawValue string
}

func textCast(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "mysql" {
		return "CAST(" + column + " AS CHAR)"
	}
	return "CAST(" + column + " AS TEXT)"
}

func legacyValue(raw []byte) types.Value {
	if parsed, err := types.ParseJSON(string(raw)); err == nil {
		return types.FromAny(parsed)
	}
	return types.Text(string(raw))
}
