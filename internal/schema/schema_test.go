package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"settings-ui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(s types.Schema) []string {
	keys := make([]string, 0, len(s.Defaults))
	for _, p := range s.Defaults {
		keys = append(keys, p.Key)
	}
	return keys
}

func TestParseMapForm(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		doc       string
		wantOrder []string
	}{
		{
			name:      "yaml keeps document order",
			format:    FormatYAML,
			doc:       "retries: 3\nmail_from: a@b.com\nenabled: true\nratio: 0.5\ntags: [a, b]\nextra: {k: v}\n",
			wantOrder: []string{"retries", "mail_from", "enabled", "ratio", "tags", "extra"},
		},
		{
			name:      "json keeps document order",
			format:    FormatJSON,
			doc:       `{"retries": 3, "mail_from": "a@b.com", "enabled": true, "ratio": 0.5, "tags": ["a", "b"], "extra": {"k": "v"}}`,
			wantOrder: []string{"retries", "mail_from", "enabled", "ratio", "tags", "extra"},
		},
		{
			name:      "hjson sorts keys",
			format:    FormatHJSON,
			doc:       "{\n  retries: 3\n  mail_from: a@b.com\n  enabled: true\n  ratio: 0.5\n  tags: [\"a\", \"b\"]\n  extra: {k: \"v\"}\n}",
			wantOrder: []string{"enabled", "extra", "mail_from", "ratio", "retries", "tags"},
		},
		{
			name:      "toml sorts keys",
			format:    FormatTOML,
			doc:       "retries = 3\nmail_from = \"a@b.com\"\nenabled = true\nratio = 0.5\ntags = [\"a\", \"b\"]\n\n[extra]\nk = \"v\"\n",
			wantOrder: []string{"enabled", "extra", "mail_from", "ratio", "retries", "tags"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Parse([]byte(tt.doc), tt.format)
			require.NoError(t, err)
			require.False(t, schema.IsListForm())
			assert.Equal(t, tt.wantOrder, keysOf(schema))

			byKey := make(map[string]types.Value)
			for _, p := range schema.Defaults {
				byKey[p.Key] = p.Default
			}
			assert.Equal(t, types.KindInt, byKey["retries"].Kind())
			assert.Equal(t, types.KindText, byKey["mail_from"].Kind())
			assert.Equal(t, types.KindBool, byKey["enabled"].Kind())
			assert.Equal(t, types.KindFloat, byKey["ratio"].Kind())
			assert.True(t, types.Strings([]string{"a", "b"}).Equal(byKey["tags"]))
			assert.True(t, types.Map(map[string]any{"k": "v"}).Equal(byKey["extra"]))
		})
	}
}

func TestParseListForm(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"yaml sequence", FormatYAML, "- bare\n- name: mail_host\n  default: smtp.example.com\n"},
		{"yaml settings key", FormatYAML, "settings:\n  - bare\n  - {name: mail_host, default: smtp.example.com}\n"},
		{"json array", FormatJSON, `["bare", {"name": "mail_host", "default": "smtp.example.com"}]`},
		{"json settings key", FormatJSON, `{"settings": ["bare", {"name": "mail_host", "default": "smtp.example.com"}]}`},
		{"hjson array", FormatHJSON, "[\n  bare\n  {name: \"mail_host\", default: \"smtp.example.com\"}\n]"},
		{"toml array of tables", FormatTOML, "[[settings]]\nname = \"bare\"\n\n[[settings]]\nname = \"mail_host\"\ndefault = \"smtp.example.com\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := Parse([]byte(tt.doc), tt.format)
			require.NoError(t, err)
			require.True(t, schema.IsListForm())
			assert.Len(t, schema.Fields, 2)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{"), FormatJSON)
	assert.Error(t, err)

	for _, doc := range []string{`[{"name":"a"}`, `{"a": 1`, `{"a": 1} {"b": 2}`, `[] 7`} {
		_, err = Parse([]byte(doc), FormatJSON)
		assert.Error(t, err, doc)
	}

	_, err = Parse([]byte("42"), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("just text"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("a"), Format("ini"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	schema, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 0, schema.Len())

	schema, err = Parse([]byte(""), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 0, schema.Len())
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"settings.yml", FormatYAML, false},
		{"settings.YAML", FormatYAML, false},
		{"/etc/app/settings.json", FormatJSON, false},
		{"settings.hjson", FormatHJSON, false},
		{"settings.toml", FormatTOML, false},
		{"settings.ini", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSourceReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retries: 3\n"), 0o644))

	source, err := NewFileSource(path)
	require.NoError(t, err)

	schema, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"retries"}, keysOf(schema))

	require.NoError(t, os.WriteFile(path, []byte("retries: 3\nmail_from: a@b.com\n"), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	schema, err = source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"retries", "mail_from"}, keysOf(schema))
}

func TestFileSourceMissingFile(t *testing.T) {
	source, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, err = source.Load(context.Background())
	assert.Error(t, err)
}

func TestFromStruct(t *testing.T) {
	fields, err := FromStruct(types.SystemSettings{})
	require.NoError(t, err)
	require.NotEmpty(t, fields)

	byKey := make(map[string]any)
	for _, f := range fields {
		field := f.(Field)
		byKey[field.Key()] = field.Default()
	}

	assert.Equal(t, "noreply@example.com", byKey["mail_from"])
	assert.Equal(t, int64(587), byKey["mail_smtp_port"])
	assert.Equal(t, true, byKey["mail_enable_tls"])
	assert.Equal(t, 2.5, byKey["api_timeout_seconds"])
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, byKey["allowed_hosts"])
	assert.Equal(t, map[string]any{"beta": false}, byKey["feature_flags"])
	assert.Equal(t, "", byKey["maintenance_message"])
}

func TestFromStructRejectsBadInput(t *testing.T) {
	_, err := FromStruct(42)
	assert.Error(t, err)

	type badDefault struct {
		Port int `json:"port" default:"eighty"`
	}
	_, err = FromStruct(badDefault{})
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	source := NewStaticSource(types.DefaultPair{Key: "a", Default: types.Int(1)})
	schema, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keysOf(schema))

	fields := NewStaticFields("a", "b")
	schema, err = fields.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, schema.IsListForm())
}
