package schema

import (
	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
)

// NewSource returns a FileSource for SETTINGS_SCHEMA_PATH, or the built-in
// SystemSettings schema when no path is configured.
func NewSource(configManager types.ConfigManager) (Source, error) {
	path := configManager.GetSettingsConfig().SchemaPath
	if path != "" {
		return NewFileSource(path)
	}

	fields, err := FromStruct(types.SystemSettings{})
	if err != nil {
		return nil, err
	}
	logrus.Debug("SETTINGS_SCHEMA_PATH not configured, using built-in settings")
	return NewStaticFields(fields...), nil
}
