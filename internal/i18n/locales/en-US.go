package locales

// MessagesEnUS English messages
var MessagesEnUS = map[string]string{
	// 通用
	"common.success":       "Success",
	"common.health_status": "healthy",

	// 设置页面
	"page.title":              "Settings",
	"page.subtitle":           "Application configuration",
	"page.save":               "Save settings",
	"page.empty":              "No settings available",
	"page.default":            "Default",
	"page.language":           "Language",
	"page.field_types":        "Field types",
	"field.enabled":           "Enabled",
	"field.array_placeholder": "Enter comma-separated values",
	"field.array_hint":        "Separate multiple values with commas",
	"field.json_hint":         "Enter a JSON object",

	// 描述
	"setting.description.mail":  "Email related configuration",
	"setting.description.api":   "API configuration",
	"setting.description.cache": "Caching configuration",

	// 提示
	"notice.updated":  "Settings updated successfully",
	"notice.failed":   "Some settings could not be saved: {{.Keys}}",
	"notice.degraded": "Saved as plain text because the value did not match the expected type: {{.Keys}}",
	"notice.imported": "Imported {{.Count}} settings",

	// 错误
	"error.unauthorized":      "Authentication required",
	"error.invalid_auth":      "Invalid authentication key",
	"error.invalid_json":      "Invalid JSON request body",
	"error.unknown_setting":   "Unknown setting: {{.Key}}",
	"error.no_settings":       "No settings submitted",
	"error.invalid_format":    "Unsupported snapshot format: {{.Format}}",
	"error.invalid_snapshot":  "Invalid snapshot file",
	"error.import_busy":       "Another import is in progress",
	"error.store_unavailable": "Settings store is unavailable",
}
