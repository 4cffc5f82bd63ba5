package models

import (
	"time"

	"gorm.io/datatypes"
)

// Value kinds stored next to an override payload
const (
	ValueKindTagged    = "tagged"
	ValueKindEncrypted = "encrypted"
	ValueKindMarker    = "marker"
)

// SystemSetting corresponds to system_settings table and holds one override per key
type SystemSetting struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string         `gorm:"type:varchar(255);not null;unique" json:"setting_key"`
	SettingValue datatypes.JSON `gorm:"type:json;not null" json:"setting_value"`
	ValueKind    string         `gorm:"type:varchar(32);not null;default:'tagged'" json:"value_kind"`
	Description  string         `gorm:"type:varchar(512)" json:"description"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SettingSnapshot records one export or import of a settings snapshot
type SettingSnapshot struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SnapshotID string    `gorm:"type:varchar(36);not null;index" json:"snapshot_id"`
	Direction  string    `gorm:"type:varchar(16);not null;index" json:"direction"` // "export" or "import"
	Format     string    `gorm:"type:varchar(16);not null" json:"format"`
	Entries    int       `gorm:"not null" json:"entries"`
	FailedKeys string    `gorm:"type:text" json:"failed_keys"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
