package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"settings-ui/internal/models"
	"settings-ui/internal/store"
	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OverrideRecord is one persisted override: an encoded payload and how it was encoded.
type OverrideRecord struct {
	Kind    string
	Payload []byte
}

// OverrideStore persists per-key overrides of schema defaults.
type OverrideStore interface {
	Get(ctx context.Context, key string) (OverrideRecord, bool, error)
	Put(ctx context.Context, key string, record OverrideRecord) error
	Remove(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]OverrideRecord, error)
}

// NewOverrideStore picks the backend named by SETTINGS_BACKEND.
func NewOverrideStore(configManager types.ConfigManager, db *gorm.DB, cacheStore store.Store) OverrideStore {
	if configManager.GetSettingsConfig().Backend == types.BackendCache {
		logrus.Info("Settings overrides stored in cache store")
		return NewCacheOverrideStore(cacheStore)
	}
	logrus.Info("Settings overrides stored in database")
	return NewDBOverrideStore(db)
}

// DBOverrideStore keeps overrides in the system_settings table.
type DBOverrideStore struct {
	db *gorm.DB
}

// NewDBOverrideStore creates a database backed override store.
func NewDBOverrideStore(db *gorm.DB) *DBOverrideStore {
	return &DBOverrideStore{db: db}
}

// Get loads the override of a key.
func (s *DBOverrideStore) Get(ctx context.Context, key string) (OverrideRecord, bool, error) {
	var setting models.SystemSetting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OverrideRecord{}, false, nil
	}
	if err != nil {
		return OverrideRecord{}, false, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return OverrideRecord{Kind: setting.ValueKind, Payload: []byte(setting.SettingValue)}, true, nil
}

// Put inserts or replaces the override of a key.
func (s *DBOverrideStore) Put(ctx context.Context, key string, record OverrideRecord) error {
	setting := models.SystemSetting{
		SettingKey:   key,
		SettingValue: datatypes.JSON(record.Payload),
		ValueKind:    record.Kind,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "value_kind", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes the override of a key. Removing a missing override is not an error.
func (s *DBOverrideStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&models.SystemSetting{}).Error; err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// All loads every stored row.
func (s *DBOverrideStore) All(ctx context.Context) (map[string]OverrideRecord, error) {
	var rows []models.SystemSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	out := make(map[string]OverrideRecord, len(rows))
	for _, row := range rows {
		out[row.SettingKey] = OverrideRecord{Kind: row.ValueKind, Payload: []byte(row.SettingValue)}
	}
	return out, nil
}

// overridesHashKey is the cache hash holding one field per overridden key.
const overridesHashKey = "settings:overrides"

type cacheRecord struct {
	Kind    string          `json:"value_kind"`
	Payload json.RawMessage `json:"payload"`
}

// CacheOverrideStore keeps overrides in a store.Store hash, memory or redis.
type CacheOverrideStore struct {
	store store.Store
}

// NewCacheOverrideStore creates a cache backed override store.
func NewCacheOverrideStore(s store.Store) *CacheOverrideStore {
	return &CacheOverrideStore{store: s}
}

// Get loads the override of a key.
func (s *CacheOverrideStore) Get(ctx context.Context, key string) (OverrideRecord, bool, error) {
	all, err := s.All(ctx)
	if err != nil {
		return OverrideRecord{}, false, err
	}
	record, found := all[key]
	return record, found, nil
}

// Put inserts or replaces the override of a key.
func (s *CacheOverrideStore) Put(_ context.Context, key string, record OverrideRecord) error {
	encoded, err := json.Marshal(cacheRecord{Kind: record.Kind, Payload: record.Payload})
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}
	if err := s.store.HSet(overridesHashKey, map[string]any{key: encoded}); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes the override of a key.
func (s *CacheOverrideStore) Remove(_ context.Context, key string) error {
	if err := s.store.HDel(overridesHashKey, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// All loads every stored override. Fields that cannot be decoded are skipped.
func (s *CacheOverrideStore) All(context.Context) (map[string]OverrideRecord, error) {
	fields, err := s.store.HGetAll(overridesHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	out := make(map[string]OverrideRecord, len(fields))
	for key, raw := range fields {
		var record cacheRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Skipping unreadable cached setting")
			continue
		}
		out[key] = OverrideRecord{Kind: record.Kind, Payload: record.Payload}
	}
	return out, nil
}
