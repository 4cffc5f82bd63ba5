// Package snapshot encodes the current settings for export and decodes uploaded exports.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"settings-ui/internal/types"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format is the document encoding of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Entry is one exported setting.
type Entry struct {
	Key   string      `json:"key" yaml:"key"`
	Value types.Value `json:"value" yaml:"value"`
}

// Snapshot is a point-in-time copy of every setting value.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Settings  []Entry   `json:"settings" yaml:"settings"`
}

// New creates a snapshot with a fresh ID.
func New(entries []Entry) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Settings:  entries,
	}
}

// ParseFormat accepts json and yaml (yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported snapshot format %q", s)
}

// FormatFromFileName guesses the document format from a file name, ignoring any compression suffix.
func FormatFromFileName(name string) Format {
	lower := strings.ToLower(name)
	if ext := CompressionFromFileName(lower).Extension(); ext != "" {
		lower = strings.TrimSuffix(lower, ext)
	}
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// ContentType returns the MIME type of an uncompressed document.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes the snapshot document, compressed as requested.
func Encode(w io.Writer, snap *Snapshot, format Format, compression Compression) error {
	cw, err := compressWriter(w, compression)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(cw)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(cw)
		enc.SetIndent(2)
		err = enc.Encode(snap)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		cw.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return cw.Close()
}

type rawEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value any    `json:"value" yaml:"value"`
}

type rawSnapshot struct {
	ID        string     `json:"id" yaml:"id"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	Settings  []rawEntry `json:"settings" yaml:"settings"`
}

// Decode reads a snapshot. An empty compression is detected from the payload,
// brotli has no magic number and must be named. JSON and YAML are told apart by
// the first character.
func Decode(data []byte, compression Compression) (*Snapshot, error) {
	if compression == "" {
		compression = DetectCompression(data)
	}
	plain, err := decompress(data, compression)
	if err != nil {
		return nil, err
	}

	var raw rawSnapshot
	trimmed := bytes.TrimSpace(plain)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty snapshot")
	}
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		err = dec.Decode(&raw)
	} else {
		err = yaml.Unmarshal(trimmed, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	snap := &Snapshot{ID: raw.ID, CreatedAt: raw.CreatedAt, Settings: make([]Entry, 0, len(raw.Settings))}
	for i, entry := range raw.Settings {
		if entry.Key == "" {
			return nil, fmt.Errorf("invalid snapshot: entry %d has no key", i)
		}
		snap.Settings = append(snap.Settings, Entry{Key: entry.Key, Value: types.FromAny(entry.Value)})
	}
	return snap, nil
}

// FileName is the download name of a snapshot.
func FileName(snap *Snapshot, format Format, compression Compression) string {
	return fmt.Sprintf("settings-%s.%s%s", snap.CreatedAt.Format("20060102-150405"), format, compression.Extension())
}
