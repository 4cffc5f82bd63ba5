package settings

import (
	"encoding/json"

	"settings-ui/internal/models"
	"settings-ui/internal/types"
)

// SettingDescriptor is the per-request view of one setting.
type SettingDescriptor struct {
	Key           string      `json:"key"`
	Label         string      `json:"label"`
	Category      string      `json:"category"`
	DefaultValue  types.Value `json:"default_value"`
	CurrentValue  types.Value `json:"current_value"`
	FieldType     FieldType   `json:"field_type"`
	Description   string      `json:"description,omitempty"`
	DescriptionID string      `json:"-"`
}

// NewDescriptor classifies, categorizes and labels a setting.
func NewDescriptor(key string, defaultValue, currentValue types.Value) SettingDescriptor {
	d := SettingDescriptor{
		Key:          key,
		Label:        Humanize(key),
		Category:     Categorize(key),
		DefaultValue: defaultValue,
		CurrentValue: currentValue,
		FieldType:    Classify(defaultValue, currentValue),
	}
	if msg := Describe(key); msg != nil {
		d.Description = msg.Other
		d.DescriptionID = msg.ID
	}
	return d
}

// DisplayValue is the text the form pre-fills for this setting.
// A null current value falls back to the default.
func (d SettingDescriptor) DisplayValue() string {
	if d.CurrentValue.IsNull() {
		return Stringify(d.DefaultValue)
	}
	return Stringify(d.CurrentValue)
}

// Translator localizes a message ID, returning fallback when no translation exists.
type Translator func(messageID, fallback string) string

// Catalog groups descriptors by category in enumeration order.
type Catalog struct {
	order  []string
	groups map[string][]SettingDescriptor
	index  map[string]SettingDescriptor
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		groups: make(map[string][]SettingDescriptor),
		index:  make(map[string]SettingDescriptor),
	}
}

// Add appends a descriptor to its category. Categories keep the order of their first setting.
func (c *Catalog) Add(d SettingDescriptor) {
	if _, seen := c.groups[d.Category]; !seen {
		c.order = append(c.order, d.Category)
	}
	c.groups[d.Category] = append(c.groups[d.Category], d)
	c.index[d.Key] = d
}

// Categories returns category names in display order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Settings returns the descriptors of one category.
func (c *Catalog) Settings(category string) []SettingDescriptor {
	return c.groups[category]
}

// Lookup finds a descriptor by key.
func (c *Catalog) Lookup(key string) (SettingDescriptor, bool) {
	d, found := c.index[key]
	return d, found
}

// Len returns the number of settings in the catalog.
func (c *Catalog) Len() int {
	return len(c.index)
}

// IsEmpty reports whether the catalog holds no settings.
func (c *Catalog) IsEmpty() bool {
	return len(c.index) == 0
}

// Descriptors returns every descriptor in display order.
func (c *Catalog) Descriptors() []SettingDescriptor {
	out := make([]SettingDescriptor, 0, len(c.index))
	for _, category := range c.order {
		out = append(out, c.groups[category]...)
	}
	return out
}

// Categorized converts the catalog to the API response shape.
func (c *Catalog) Categorized(translate Translator) []models.CategorizedSettings {
	result := make([]models.CategorizedSettings, 0, len(c.order))
	for _, category := range c.order {
		descriptors := c.groups[category]
		infos := make([]models.SystemSettingInfo, 0, len(descriptors))
		for _, d := range descriptors {
			description := d.Description
			if translate != nil && d.DescriptionID != "" {
				description = translate(d.DescriptionID, d.Description)
			}
			infos = append(infos, models.SystemSettingInfo{
				Key:          d.Key,
				Name:         d.Label,
				Value:        d.CurrentValue.Interface(),
				Type:         string(d.FieldType),
				DefaultValue: d.DefaultValue.Interface(),
				Description:  description,
				Category:     d.Category,
			})
		}
		result = append(result, models.CategorizedSettings{
			CategoryName: category,
			Settings:     infos,
		})
	}
	return result
}

// MarshalJSON encodes the catalog as an ordered list of categories.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Categorized(nil))
}
