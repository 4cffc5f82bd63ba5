// Package commands implements the command line entry points besides serve.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"settings-ui/internal/container"
	"settings-ui/internal/i18n"
	"settings-ui/internal/services"
	"settings-ui/internal/settings"
	"settings-ui/internal/snapshot"
	"settings-ui/internal/types"
	"settings-ui/internal/utils"

	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gopkg.in/yaml.v3"
)

// buildContainer builds the dependency container and initializes the global logger.
func buildContainer() *dig.Container {
	cont, err := container.BuildContainer()
	if err != nil {
		logrus.Fatalf("Failed to build container: %v", err)
	}

	if err := cont.Invoke(func(configManager types.ConfigManager) {
		utils.SetupLogger(configManager)
		i18n.SetDefaultLanguage(configManager.GetSettingsConfig().DefaultLocale)
	}); err != nil {
		logrus.Fatalf("Failed to setup logger: %v", err)
	}
	return cont
}

// RunShow prints the settings catalog.
func RunShow(args []string) {
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	format := showCmd.String("format", "yaml", "Output format: yaml or json")
	lang := showCmd.String("lang", "", "Language for descriptions")
	if err := showCmd.Parse(args); err != nil {
		logrus.Fatalf("Parameter parsing failed: %v", err)
	}

	cont := buildContainer()
	if err := cont.Invoke(func(builder *settings.Builder) {
		catalog := builder.Build(context.Background())
		if err := WriteCatalog(os.Stdout, catalog, *format, i18n.TranslatorFor(*lang)); err != nil {
			logrus.Fatalf("Failed to print settings: %v", err)
		}
	}); err != nil {
		logrus.Fatalf("Failed to show settings: %v", err)
	}
}

// WriteCatalog writes the categorized catalog as YAML or JSON.
func WriteCatalog(w io.Writer, catalog *settings.Catalog, format string, translate settings.Translator) error {
	categorized := catalog.Categorized(translate)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(categorized)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(categorized); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// RunSet converts and writes one setting.
func RunSet(args []string) {
	setCmd := flag.NewFlagSet("set", flag.ExitOnError)
	key := setCmd.String("key", "", "Setting key")
	value := setCmd.String("value", "", "Raw value, converted against the setting's default")
	clearOverride := setCmd.Bool("clear", false, "Remove the stored override and fall back to the default")
	rejectDegraded := setCmd.Bool("strict", false, "Fail instead of storing text when the value cannot be converted")
	if err := setCmd.Parse(args); err != nil {
		logrus.Fatalf("Parameter parsing failed: %v", err)
	}
	if *key == "" {
		setCmd.Usage()
		os.Exit(1)
	}

	raw := types.Text(*value)
	if *clearOverride {
		raw = types.Null()
	}

	cont := buildContainer()
	if err := cont.Invoke(func(updater *settings.Updater, configManager types.ConfigManager) {
		opts := settings.UpdateOptions{RejectDegraded: *rejectDegraded || configManager.GetSettingsConfig().RejectDegraded}
		result := updater.ApplyOne(context.Background(), *key, raw, opts)
		if err := printResult(os.Stdout, result); err != nil {
			logrus.Fatalf("Failed to update %s: %v", *key, err)
		}
	}); err != nil {
		logrus.Fatalf("Failed to set setting: %v", err)
	}
}

func printResult(w io.Writer, result settings.KeyResult) error {
	switch result.Status {
	case settings.StatusFailed, settings.StatusSkipped:
		return result.Err()
	case settings.StatusDegraded:
		fmt.Fprintf(w, "%s = %s (stored as text: %s)\n", result.Key, settings.Stringify(result.Value), result.Warning)
	default:
		fmt.Fprintf(w, "%s = %s\n", result.Key, settings.Stringify(result.Value))
	}
	return nil
}

// RunExport writes a settings snapshot to a file or stdout.
func RunExport(args []string) {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	out := exportCmd.String("out", "", "Output file, stdout when empty")
	formatName := exportCmd.String("format", "", "Snapshot format: json or yaml (default from file name)")
	compressionName := exportCmd.String("compression", "", "Compression: none, gzip, zstd or br (default from file name)")
	if err := exportCmd.Parse(args); err != nil {
		logrus.Fatalf("Parameter parsing failed: %v", err)
	}

	format := snapshot.FormatFromFileName(*out)
	if *formatName != "" {
		f, err := snapshot.ParseFormat(*formatName)
		if err != nil {
			logrus.Fatal(err)
		}
		format = f
	}
	compression := snapshot.CompressionFromFileName(*out)
	if *compressionName != "" {
		c, err := snapshot.ParseCompression(*compressionName)
		if err != nil {
			logrus.Fatal(err)
		}
		compression = c
	}

	cont := buildContainer()
	if err := cont.Invoke(func(snapshotService *services.SnapshotService) {
		snap, err := snapshotService.Export(context.Background(), format)
		if err != nil {
			logrus.Fatalf("Failed to export settings: %v", err)
		}

		var buf bytes.Buffer
		if err := snapshot.Encode(&buf, snap, format, compression); err != nil {
			logrus.Fatalf("Failed to encode snapshot: %v", err)
		}
		if *out == "" {
			_, err = os.Stdout.Write(buf.Bytes())
		} else {
			err = os.WriteFile(*out, buf.Bytes(), 0o600)
		}
		if err != nil {
			logrus.Fatalf("Failed to write snapshot: %v", err)
		}
		logrus.WithFields(logrus.Fields{"snapshot": snap.ID, "entries": len(snap.Settings)}).Info("Settings exported")
	}); err != nil {
		logrus.Fatalf("Failed to export settings: %v", err)
	}
}

// RunImport applies a snapshot file through the updater.
func RunImport(args []string) {
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	in := importCmd.String("in", "", "Snapshot file to import")
	stopOnError := importCmd.Bool("stop-on-error", false, "Skip remaining keys after the first failure")
	if err := importCmd.Parse(args); err != nil {
		logrus.Fatalf("Parameter parsing failed: %v", err)
	}
	if *in == "" {
		importCmd.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		logrus.Fatalf("Failed to read %s: %v", *in, err)
	}
	snap, err := snapshot.Decode(data, snapshot.CompressionFromFileName(*in))
	if err != nil {
		logrus.Fatalf("Failed to decode %s: %v", *in, err)
	}

	cont := buildContainer()
	if err := cont.Invoke(func(snapshotService *services.SnapshotService, configManager types.ConfigManager) {
		opts := settings.UpdateOptions{
			StopOnError:    *stopOnError,
			RejectDegraded: configManager.GetSettingsConfig().RejectDegraded,
		}
		report, err := snapshotService.Import(context.Background(), snap, snapshot.FormatFromFileName(*in), opts)
		if err != nil {
			logrus.Fatalf("Failed to import settings: %v", err)
		}
		for _, result := range report.Results {
			if err := printResult(os.Stdout, result); err != nil {
				fmt.Fprintf(os.Stdout, "%s: %v\n", result.Key, err)
			}
		}
		if !report.Succeeded() {
			logrus.Fatalf("Import finished with failures: %s", strings.Join(report.FailedKeys(), ", "))
		}
	}); err != nil {
		logrus.Fatalf("Failed to import settings: %v", err)
	}
}
