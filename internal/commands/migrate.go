package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"settings-ui/internal/encryption"
	"settings-ui/internal/models"
	"settings-ui/internal/services"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/sirupsen/logrus"
)

// RunMigrateKeys handles the migrate-keys command entry point
func RunMigrateKeys(args []string) {
	// Parse migrate-keys subcommand parameters
	migrateCmd := flag.NewFlagSet("migrate-keys", flag.ExitOnError)
	fromKey := migrateCmd.String("from", "", "Source encryption key (for decrypting existing overrides)")
	toKey := migrateCmd.String("to", "", "Target encryption key (for encrypting overrides)")

	// Set custom usage message
	migrateCmd.Usage = func() {
		fmt.Println("Settings UI Encryption Key Migration Tool")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  Enable encryption: settings-ui migrate-keys --to new-key")
		fmt.Println("  Disable encryption: settings-ui migrate-keys --from old-key")
		fmt.Println("  Change key: settings-ui migrate-keys --from old-key --to new-key")
		fmt.Println()
		fmt.Println("Arguments:")
		migrateCmd.PrintDefaults()
		fmt.Println()
		fmt.Println("Important Notes:")
		fmt.Println("  1. Export a settings snapshot before migrating")
		fmt.Println("  2. Stop the server during migration")
		fmt.Println("  3. Set ENCRYPTION_KEY to the new key before restarting")
	}

	if err := migrateCmd.Parse(args); err != nil {
		logrus.Fatalf("Parameter parsing failed: %v", err)
	}

	if len(args) == 0 || (*fromKey == "" && *toKey == "") {
		migrateCmd.Usage()
		os.Exit(1)
	}

	cont := buildContainer()
	if err := cont.Invoke(func(overrides services.OverrideStore) {
		migrateKeysCmd := NewMigrateKeysCommand(overrides, *fromKey, *toKey)
		if err := migrateKeysCmd.Execute(context.Background()); err != nil {
			logrus.Fatalf("Key migration failed: %v", err)
		}
	}); err != nil {
		logrus.Fatalf("Failed to execute migration: %v", err)
	}

	logrus.Info("Key migration command completed")
}

// MigrateKeysCommand re-encodes every stored override under a new encryption key.
type MigrateKeysCommand struct {
	overrides services.OverrideStore
	fromKey   string
	toKey     string
}

// NewMigrateKeysCommand creates a new migration command
func NewMigrateKeysCommand(overrides services.OverrideStore, fromKey, toKey string) *MigrateKeysCommand {
	return &MigrateKeysCommand{
		overrides: overrides,
		fromKey:   fromKey,
		toKey:     toKey,
	}
}

// Execute performs the key migration. Records already written are restored
// from the in-memory backup when a later write or the verification fails.
func (cmd *MigrateKeysCommand) Execute(ctx context.Context) error {
	// 1. Validate parameters and get scenario
	scenario, err := cmd.validateAndGetScenario()
	if err != nil {
		return fmt.Errorf("parameter validation failed: %w", err)
	}
	logrus.Infof("Starting key migration, scenario: %s", scenario)

	oldCodec, newCodec, err := cmd.createMigrationCodecs()
	if err != nil {
		return err
	}

	// 2. Pre-check - every override must decode with the old key
	backup, values, err := cmd.preCheck(ctx, oldCodec)
	if err != nil {
		return fmt.Errorf("pre-check failed: %w", err)
	}
	if len(backup) == 0 {
		logrus.Info("No stored overrides, nothing to migrate")
		return nil
	}

	// 3. Re-encode and write
	migrated, err := cmd.migrate(ctx, values, newCodec)
	if err != nil {
		cmd.restore(ctx, backup, migrated)
		return fmt.Errorf("data migration failed: %w", err)
	}

	// 4. Verify with the new key
	if err := cmd.verify(ctx, values, newCodec); err != nil {
		cmd.restore(ctx, backup, migrated)
		return fmt.Errorf("data verification failed: %w", err)
	}

	logrus.Infof("Key migration completed successfully, %d overrides migrated", len(migrated))
	return nil
}

// validateAndGetScenario validates parameters and returns migration scenario
func (cmd *MigrateKeysCommand) validateAndGetScenario() (string, error) {
	hasFrom := cmd.fromKey != ""
	hasTo := cmd.toKey != ""

	switch {
	case !hasFrom && hasTo:
		utils.ValidatePasswordStrength(cmd.toKey, "new encryption key")
		return "enable encryption", nil
	case hasFrom && !hasTo:
		return "disable encryption", nil
	case hasFrom && hasTo:
		if cmd.fromKey == cmd.toKey {
			return "", fmt.Errorf("new and old keys cannot be the same")
		}
		utils.ValidatePasswordStrength(cmd.toKey, "new encryption key")
		return "change encryption key", nil
	default:
		return "", fmt.Errorf("must specify --from or --to parameter, or both")
	}
}

// createMigrationCodecs creates codecs for the old and new keys. An empty key means plaintext.
func (cmd *MigrateKeysCommand) createMigrationCodecs() (oldCodec, newCodec services.ValueCodec, err error) {
	oldService, err := encryption.NewServiceWithKey(cmd.fromKey)
	if err != nil {
		return oldCodec, newCodec, fmt.Errorf("failed to create old encryption service: %w", err)
	}
	newService, err := encryption.NewServiceWithKey(cmd.toKey)
	if err != nil {
		return oldCodec, newCodec, fmt.Errorf("failed to create new encryption service: %w", err)
	}
	return services.NewValueCodec(oldService), services.NewValueCodec(newService), nil
}

func (cmd *MigrateKeysCommand) preCheck(ctx context.Context, oldCodec services.ValueCodec) (map[string]services.OverrideRecord, map[string]types.Value, error) {
	logrus.Info("Executing pre-check...")

	records, err := cmd.overrides.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list overrides: %w", err)
	}

	backup := make(map[string]services.OverrideRecord, len(records))
	values := make(map[string]types.Value, len(records))
	failedCount := 0
	for key, record := range records {
		if record.Kind == models.ValueKindMarker {
			continue
		}
		value, err := oldCodec.Decode(record)
		if err != nil {
			logrus.Errorf("Override %s cannot be decoded: %v", key, err)
			failedCount++
			continue
		}
		backup[key] = record
		values[key] = value
	}

	if failedCount > 0 {
		return nil, nil, fmt.Errorf("found %d overrides that cannot be decoded, check the --from key", failedCount)
	}
	logrus.Infof("Pre-check passed, %d overrides verified", len(values))
	return backup, values, nil
}

func (cmd *MigrateKeysCommand) migrate(ctx context.Context, values map[string]types.Value, newCodec services.ValueCodec) ([]string, error) {
	migrated := make([]string, 0, len(values))
	for _, key := range types.SortedKeys(values) {
		record, err := newCodec.Encode(values[key])
		if err != nil {
			return migrated, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if err := cmd.overrides.Put(ctx, key, record); err != nil {
			return migrated, fmt.Errorf("failed to write %s: %w", key, err)
		}
		migrated = append(migrated, key)
	}
	return migrated, nil
}

func (cmd *MigrateKeysCommand) verify(ctx context.Context, values map[string]types.Value, newCodec services.ValueCodec) error {
	for _, key := range types.SortedKeys(values) {
		record, found, err := cmd.overrides.Get(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("override %s disappeared during migration", key)
		}
		value, err := newCodec.Decode(record)
		if err != nil {
			return fmt.Errorf("override %s cannot be decoded with the new key: %w", key, err)
		}
		if !value.Equal(values[key]) {
			return fmt.Errorf("override %s changed during migration", key)
		}
	}
	logrus.Info("Verification passed")
	return nil
}

func (cmd *MigrateKeysCommand) restore(ctx context.Context, backup map[string]services.OverrideRecord, migrated []string) {
	sort.Strings(migrated)
	for _, key := range migrated {
		if err := cmd.overrides.Put(ctx, key, backup[key]); err != nil {
			logrus.Errorf("Failed to restore override %s, restore it from a snapshot: %v", key, err)
		}
	}
	logrus.Warnf("Restored %d overrides to their previous encoding", len(migrated))
}
