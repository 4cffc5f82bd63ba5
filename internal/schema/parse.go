// Package schema loads the default values of the settings store from files or Go structs.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"settings-ui/internal/types"

	"github.com/hjson/hjson-go/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a schema document encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatHJSON Format = "hjson"
	FormatTOML  Format = "toml"
)

// listKey names the top-level key that holds a list-form schema in mapping documents.
const listKey = "settings"

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hjson":
		return FormatHJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported schema file extension %q", filepath.Ext(path))
}

// Parse decodes a schema document. A mapping root is a map-form schema, a
// sequence root or a mapping whose only key is "settings" holding a sequence is
// a list-form schema. YAML and JSON keep document order, HJSON and TOML
// mappings are enumerated in key order.
func Parse(data []byte, format Format) (types.Schema, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatHJSON:
		return parseHJSON(data)
	case FormatTOML:
		return parseTOML(data)
	}
	return types.Schema{}, fmt.Errorf("unsupported schema format %q", format)
}

func parseYAML(data []byte) (types.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Schema{}, fmt.Errorf("invalid yaml schema: %w", err)
	}
	if len(doc.Content) == 0 {
		return types.Schema{Defaults: []types.DefaultPair{}}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return yamlFields(root)
	case yaml.MappingNode:
		if len(root.Content) == 2 && root.Content[0].Value == listKey && root.Content[1].Kind == yaml.SequenceNode {
			return yamlFields(root.Content[1])
		}
		pairs := make([]types.DefaultPair, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			var value any
			if err := root.Content[i+1].Decode(&value); err != nil {
				return types.Schema{}, fmt.Errorf("setting %s: %w", root.Content[i].Value, err)
			}
			pairs = append(pairs, types.DefaultPair{Key: root.Content[i].Value, Default: types.FromAny(value)})
		}
		return types.Schema{Defaults: pairs}, nil
	}
	return types.Schema{}, fmt.Errorf("yaml schema root must be a mapping or a sequence")
}

func yamlFields(seq *yaml.Node) (types.Schema, error) {
	fields := make([]any, 0, len(seq.Content))
	for _, item := range seq.Content {
		var entry any
		if err := item.Decode(&entry); err != nil {
			return types.Schema{}, fmt.Errorf("invalid schema entry at line %d: %w", item.Line, err)
		}
		fields = append(fields, entry)
	}
	return types.Schema{Fields: fields}, nil
}

func parseJSON(data []byte) (types.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return types.Schema{Defaults: []types.DefaultPair{}}, nil
	}
	if err != nil {
		return types.Schema{}, fmt.Errorf("invalid json schema: %w", err)
	}

	switch tok {
	case json.Delim('['):
		fields := make([]any, 0)
		for dec.More() {
			var entry any
			if err := dec.Decode(&entry); err != nil {
				return types.Schema{}, fmt.Errorf("invalid json schema entry: %w", err)
			}
			fields = append(fields, entry)
		}
		if err := closeJSON(dec, ']'); err != nil {
			return types.Schema{}, err
		}
		return types.Schema{Fields: fields}, nil
	case json.Delim('{'):
		keys := make([]string, 0)
		values := make([]any, 0)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return types.Schema{}, fmt.Errorf("invalid json schema: %w", err)
			}
			key, _ := keyTok.(string)
			var value any
			if err := dec.Decode(&value); err != nil {
				return types.Schema{}, fmt.Errorf("setting %s: %w", key, err)
			}
			keys = append(keys, key)
			values = append(values, value)
		}
		if err := closeJSON(dec, '}'); err != nil {
			return types.Schema{}, err
		}
		if len(keys) == 1 && keys[0] == listKey {
			if list, isList := values[0].([]any); isList {
				return types.Schema{Fields: list}, nil
			}
		}
		pairs := make([]types.DefaultPair, len(keys))
		for i := range keys {
			pairs[i] = types.DefaultPair{Key: keys[i], Default: types.FromAny(values[i])}
		}
		return types.Schema{Defaults: pairs}, nil
	}
	return types.Schema{}, fmt.Errorf("json schema root must be an object or an array")
}

// closeJSON consumes the closing delimiter of the root value and rejects trailing data.
func closeJSON(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid json schema: %w", err)
	}
	if tok != delim {
		return fmt.Errorf("invalid json schema: expected %q, got %v", delim, tok)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return fmt.Errorf("invalid json schema: unexpected data after root value")
		}
		return fmt.Errorf("invalid json schema: %w", err)
	}
	return nil
}

func parseHJSON(data []byte) (types.Schema, error) {
	opts := hjson.DefaultDecoderOptions()
	opts.UseJSONNumber = true

	var doc any
	if err := hjson.UnmarshalWithOptions(data, &doc, opts); err != nil {
		return types.Schema{}, fmt.Errorf("invalid hjson schema: %w", err)
	}
	return fromDocument(doc, "hjson")
}

func parseTOML(data []byte) (types.Schema, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return types.Schema{}, fmt.Errorf("invalid toml schema: %w", err)
	}
	return fromDocument(doc, "toml")
}

// fromDocument converts an unordered decoded document.
func fromDocument(doc any, format string) (types.Schema, error) {
	switch root := doc.(type) {
	case nil:
		return types.Schema{Defaults: []types.DefaultPair{}}, nil
	case []any:
		return types.Schema{Fields: root}, nil
	case map[string]any:
		if list, isList := root[listKey].([]any); isList && len(root) == 1 {
			return types.Schema{Fields: list}, nil
		}
		pairs := make([]types.DefaultPair, 0, len(root))
		for _, key := range types.SortedKeys(root) {
			pairs = append(pairs, types.DefaultPair{Key: key, Default: types.FromAny(root[key])})
		}
		return types.Schema{Defaults: pairs}, nil
	}
	return types.Schema{}, fmt.Errorf("%s schema root must be an object or an array", format)
}
