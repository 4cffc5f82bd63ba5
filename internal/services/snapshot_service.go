package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/models"
	"settings-ui/internal/settings"
	"settings-ui/internal/snapshot"
	"settings-ui/internal/store"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	importLockKey = "settings:import:lock"
	importLockTTL = 5 * time.Minute

	DirectionExport = "export"
	DirectionImport = "import"
)

// SnapshotService exports the current settings and applies uploaded snapshots.
type SnapshotService struct {
	db            *gorm.DB
	settingsStore *SettingsStore
	updater       *settings.Updater
	lockStore     store.Store
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(db *gorm.DB, settingsStore *SettingsStore, updater *settings.Updater, lockStore store.Store) *SnapshotService {
	return &SnapshotService{
		db:            db,
		settingsStore: settingsStore,
		updater:       updater,
		lockStore:     lockStore,
	}
}

// Export captures the current value of every setting in schema order.
func (s *SnapshotService) Export(ctx context.Context, format snapshot.Format) (*snapshot.Snapshot, error) {
	keys, err := s.settingsStore.Keys(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]snapshot.Entry, 0, len(keys))
	for _, key := range keys {
		value, err := s.settingsStore.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, snapshot.Entry{Key: key, Value: value})
	}

	snap := snapshot.New(entries)
	s.record(ctx, snap.ID, DirectionExport, format, len(entries), nil)
	return snap, nil
}

// Import applies every entry through the updater. Only one import runs at a time.
func (s *SnapshotService) Import(ctx context.Context, snap *snapshot.Snapshot, format snapshot.Format, opts settings.UpdateOptions) (*settings.UpdateReport, error) {
	acquired, err := s.lockStore.SetNX(importLockKey, []byte(snap.ID), importLockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
	}
	if !acquired {
		return nil, app_errors.ErrImportInProgress
	}
	defer func() {
		if err := s.lockStore.Delete(importLockKey); err != nil {
			logrus.WithError(err).Warn("Failed to release settings import lock")
		}
	}()

	submissions := make([]settings.Submission, 0, len(snap.Settings))
	for _, entry := range snap.Settings {
		submissions = append(submissions, settings.Submission{Key: entry.Key, Raw: entry.Value})
	}

	report := s.updater.Apply(ctx, submissions, opts)
	s.record(ctx, snap.ID, DirectionImport, format, len(submissions), report.FailedKeys())

	logrus.WithFields(logrus.Fields{
		"snapshot": snap.ID,
		"entries":  len(submissions),
		"failed":   len(report.FailedKeys()),
		"degraded": len(report.DegradedKeys()),
	}).Info("Settings snapshot imported")
	return report, nil
}

// History lists recent exports and imports, newest first.
func (s *SnapshotService) History(ctx context.Context, limit int) ([]models.SettingSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.SettingSnapshot
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return rows, nil
}

// record writes a history row. Failures are logged, the snapshot itself already succeeded.
func (s *SnapshotService) record(ctx context.Context, id, direction string, format snapshot.Format, entries int, failedKeys []string) {
	row := models.SettingSnapshot{
		ID:         uuid.NewString(),
		SnapshotID: id,
		Direction:  direction,
		Format:     string(format),
		Entries:    entries,
		FailedKeys: strings.Join(failedKeys, ","),
		CreatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		logrus.WithError(err).WithField("direction", direction).Warn("Failed to record settings snapshot")
	}
}
