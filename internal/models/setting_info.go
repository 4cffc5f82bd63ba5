package models

// SystemSettingInfo represents detailed system configuration information (for API response)
type SystemSettingInfo struct {
	Key          string `json:"key" yaml:"key"`
	Name         string `json:"name" yaml:"name"`
	Value        any    `json:"value" yaml:"value"`
	Type         string `json:"type" yaml:"type"` // "boolean", "integer", "float", "text", "email", "url", "array", "json", "string"
	DefaultValue any    `json:"default_value" yaml:"default_value"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Category     string `json:"category" yaml:"category"`
}

// CategorizedSettings a list of settings grouped by category
type CategorizedSettings struct {
	CategoryName string              `json:"category_name" yaml:"category_name"`
	Settings     []SystemSettingInfo `json:"settings" yaml:"settings"`
}
