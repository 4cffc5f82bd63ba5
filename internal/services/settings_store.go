package services

import (
	"context"
	"encoding/json"
	"fmt"

	"settings-ui/internal/encryption"
	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/models"
	"settings-ui/internal/schema"
	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
)

// SettingsStore serves schema defaults overlaid with persisted overrides.
type SettingsStore struct {
	source    schema.Source
	overrides OverrideStore
	codec     ValueCodec
}

// NewSettingsStore creates the settings store used by the page, the API and the CLI.
func NewSettingsStore(source schema.Source, overrides OverrideStore, encryptionSvc encryption.Service) *SettingsStore {
	return &SettingsStore{
		source:    source,
		overrides: overrides,
		codec:     ValueCodec{enc: encryptionSvc},
	}
}

// ListDefaults enumerates every known setting with its default.
func (s *SettingsStore) ListDefaults(ctx context.Context) (types.Schema, error) {
	schema, err := s.source.Load(ctx)
	if err != nil {
		return types.Schema{}, fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
	}
	return schema, nil
}

// Read returns the override of a key, or its default when none is stored.
func (s *SettingsStore) Read(ctx context.Context, key string) (types.Value, error) {
	def, err := s.lookupDefault(ctx, key)
	if err != nil {
		return types.Null(), err
	}

	record, found, err := s.overrides.Get(ctx, key)
	if err != nil {
		return types.Null(), fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
	}
	if !found {
		return def, nil
	}

	value, err := s.codec.Decode(record)
	if err != nil {
		return types.Null(), fmt.Errorf("setting %s: %w", key, err)
	}
	return value, nil
}

// Write persists an override. A null value removes the override so the default shows again.
func (s *SettingsStore) Write(ctx context.Context, key string, value types.Value) error {
	if _, err := s.lookupDefault(ctx, key); err != nil {
		return err
	}

	if value.IsNull() {
		if err := s.overrides.Remove(ctx, key); err != nil {
			return fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
		}
		logrus.WithField("key", key).Debug("Setting override cleared")
		return nil
	}

	record, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := s.overrides.Put(ctx, key, record); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
	}
	return nil
}

// Keys returns every schema key in enumeration order.
func (s *SettingsStore) Keys(ctx context.Context) ([]string, error) {
	schema, err := s.ListDefaults(ctx)
	if err != nil {
		return nil, err
	}
	pairs := settings.ResolveEntries(ctx, schema, nil)
	keys := make([]string, len(pairs))
	for i, pair := range pairs {
		keys[i] = pair.Key
	}
	return keys, nil
}

// Overrides returns the raw stored records of schema keys.
func (s *SettingsStore) Overrides(ctx context.Context) (map[string]OverrideRecord, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.overrides.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
	}
	out := make(map[string]OverrideRecord)
	for _, key := range keys {
		if record, found := all[key]; found {
			out[key] = record
		}
	}
	return out, nil
}

func (s *SettingsStore) lookupDefault(ctx context.Context, key string) (types.Value, error) {
	schema, err := s.ListDefaults(ctx)
	if err != nil {
		return types.Null(), err
	}
	for _, pair := range settings.ResolveEntries(ctx, schema, nil) {
		if pair.Key == key {
			return pair.Default, nil
		}
	}
	return types.Null(), fmt.Errorf("%w: %s", app_errors.ErrUnknownSetting, key)
}

// ValueCodec turns values into override records using the kind-tagged envelope,
// sealing the envelope when encryption is enabled.
type ValueCodec struct {
	enc encryption.Service
}

// NewValueCodec creates a codec over an encryption service.
func NewValueCodec(enc encryption.Service) ValueCodec {
	return ValueCodec{enc: enc}
}

// Encode produces the record stored for a value.
func (c ValueCodec) Encode(value types.Value) (OverrideRecord, error) {
	data, err := types.MarshalTagged(value)
	if err != nil {
		return OverrideRecord{}, err
	}
	if c.enc == nil || !c.enc.Enabled() {
		return OverrideRecord{Kind: models.ValueKindTagged, Payload: data}, nil
	}

	sealed, err := c.enc.Encrypt(string(data))
	if err != nil {
		return OverrideRecord{}, fmt.Errorf("failed to encrypt value: %w", err)
	}
	payload, err := json.Marshal(sealed)
	if err != nil {
		return OverrideRecord{}, err
	}
	return OverrideRecord{Kind: models.ValueKindEncrypted, Payload: payload}, nil
}

// Decode restores the value of a stored record.
func (c ValueCodec) Decode(record OverrideRecord) (types.Value, error) {
	switch record.Kind {
	case "", models.ValueKindTagged:
		return types.UnmarshalTagged(record.Payload)
	case models.ValueKindEncrypted:
		if c.enc == nil || !c.enc.Enabled() {
			return types.Null(), fmt.Errorf("value is encrypted but no ENCRYPTION_KEY is configured")
		}
		var sealed string
		if err := json.Unmarshal(record.Payload, &sealed); err != nil {
			return types.Null(), fmt.Errorf("invalid encrypted payload: %w", err)
		}
		plain, err := c.enc.Decrypt(sealed)
		if err != nil {
			return types.Null(), err
		}
		return types.UnmarshalTagged([]byte(plain))
	}
	return types.Null(), fmt.Errorf("unknown value kind %q", record.Kind)
}
