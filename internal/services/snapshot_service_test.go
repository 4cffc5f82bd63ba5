package services

import (
	"context"
	"testing"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/settings"
	"settings-ui/internal/snapshot"
	"settings-ui/internal/store"
	"settings-ui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshotService(t *testing.T) (*SnapshotService, *SettingsStore, store.Store) {
	t.Helper()
	db := newTestDB(t)
	lock := store.NewMemoryStore()
	s := NewSettingsStore(testSource(), NewDBOverrideStore(db), noEncryption(t))
	return NewSnapshotService(db, s, settings.NewUpdater(s, nil), lock), s, lock
}

func TestSnapshotExport(t *testing.T) {
	ctx := context.Background()
	svc, s, _ := newSnapshotService(t)
	require.NoError(t, s.Write(ctx, "mail_smtp_port", types.Int(2525)))

	snap, err := svc.Export(ctx, snapshot.FormatJSON)
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)

	keys := make([]string, 0, len(snap.Settings))
	for _, entry := range snap.Settings {
		keys = append(keys, entry.Key)
	}
	assert.Equal(t, []string{"app_name", "mail_smtp_port", "api_timeout_seconds", "cache_enabled", "allowed_hosts", "feature_flags"}, keys)
	assert.True(t, types.Int(2525).Equal(snap.Settings[1].Value))
	assert.True(t, types.Float(2.5).Equal(snap.Settings[2].Value))

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, DirectionExport, history[0].Direction)
	assert.Equal(t, snap.ID, history[0].SnapshotID)
	assert.Equal(t, 6, history[0].Entries)
}

func TestSnapshotImport(t *testing.T) {
	ctx := context.Background()
	svc, s, _ := newSnapshotService(t)

	snap := snapshot.New([]snapshot.Entry{
		{Key: "mail_smtp_port", Value: types.Int(25)},
		{Key: "api_timeout_seconds", Value: types.Text("7.5")},
		{Key: "allowed_hosts", Value: types.Strings([]string{"x.example"})},
		{Key: "removed_setting", Value: types.Text("gone")},
	})

	report, err := svc.Import(ctx, snap, snapshot.FormatYAML, settings.UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"removed_setting"}, report.FailedKeys())
	assert.ErrorIs(t, report.FirstError(), app_errors.ErrUnknownSetting)

	v, err := s.Read(ctx, "api_timeout_seconds")
	require.NoError(t, err)
	assert.True(t, types.Float(7.5).Equal(v))

	v, err = s.Read(ctx, "allowed_hosts")
	require.NoError(t, err)
	assert.True(t, types.Strings([]string{"x.example"}).Equal(v))

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, DirectionImport, history[0].Direction)
	assert.Equal(t, "removed_setting", history[0].FailedKeys)
}

func TestSnapshotImportLocked(t *testing.T) {
	ctx := context.Background()
	svc, _, lock := newSnapshotService(t)

	acquired, err := lock.SetNX(importLockKey, []byte("other"), importLockTTL)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = svc.Import(ctx, snapshot.New(nil), snapshot.FormatJSON, settings.UpdateOptions{})
	assert.ErrorIs(t, err, app_errors.ErrImportInProgress)

	require.NoError(t, lock.Delete(importLockKey))
	_, err = svc.Import(ctx, snapshot.New(nil), snapshot.FormatJSON, settings.UpdateOptions{})
	assert.NoError(t, err)

	_, err = lock.Get(importLockKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "lock released after import")
}
