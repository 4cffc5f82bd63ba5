package render

import (
	"bytes"
	"strings"
	"testing"

	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderField(t *testing.T, key string, def, current types.Value) string {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderField(&buf, settings.NewDescriptor(key, def, current), nil))
	return buf.String()
}

func TestRenderFieldControls(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      types.Value
		contains []string
	}{
		{"boolean", "cache_enabled", types.Bool(true), []string{`type="hidden" name="settings[cache_enabled]" value="0"`, `type="checkbox" id="setting_cache_enabled"`, `value="1" checked`, "Enabled"}},
		{"integer", "retries", types.Int(3), []string{`type="number"`, `step="1"`, `value="3"`}},
		{"float", "ratio", types.Float(2.5), []string{`type="number"`, `step="0.01"`, `value="2.5"`}},
		{"text", "notes", types.Text("line one\nline two"), []string{`<textarea id="setting_notes"`, `rows="4"`}},
		{"email", "mail_from", types.Text("a@b.co"), []string{`type="email"`, `value="a@b.co"`}},
		{"url", "app_url", types.Text("https://example.com"), []string{`type="url"`}},
		{"array", "allowed_hosts", types.Strings([]string{"a", "b"}), []string{`type="text"`, `value="a, b"`, "Separate multiple values with commas", `placeholder="Enter comma-separated values"`}},
		{"json", "feature_flags", types.Map(map[string]any{"beta": false}), []string{`rows="6"`, "font-monospace", "beta", "Enter a JSON object"}},
		{"string", "app_name", types.Text("Demo"), []string{`type="text" id="setting_app_name" name="settings[app_name]" value="Demo"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderField(t, tt.key, tt.def, types.Null())
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
			assert.Contains(t, html, `class="badge badge-`+BadgeColor(settings.FieldType(tt.name))+`"`)
		})
	}
}

func TestRenderFieldPrefersOverride(t *testing.T) {
	html := renderField(t, "app_name", types.Text("Demo"), types.Text("Live"))
	assert.Contains(t, html, `name="settings[app_name]" value="Live"`)
}

func TestRenderFieldUncheckedBoolean(t *testing.T) {
	html := renderField(t, "cache_enabled", types.Bool(true), types.Bool(false))
	assert.NotContains(t, html, "checked")
}

func TestRenderFieldEscapesValues(t *testing.T) {
	html := renderField(t, "app_name", types.Text(`"><script>x</script>`), types.Null())
	assert.NotContains(t, html, "<script>")
}

func TestRenderFieldDescription(t *testing.T) {
	html := renderField(t, "mail_smtp_port", types.Int(587), types.Null())
	assert.Contains(t, html, "Email related configuration")

	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	translate := func(id, fallback string) string {
		if id == "setting.description.mail" {
			return "邮件相关配置"
		}
		return fallback
	}
	require.NoError(t, r.RenderField(&buf, settings.NewDescriptor("mail_smtp_port", types.Int(587), types.Null()), translate))
	assert.Contains(t, buf.String(), "邮件相关配置")
}

func TestBadgeColor(t *testing.T) {
	assert.Equal(t, "success", BadgeColor(settings.FieldBoolean))
	assert.Equal(t, "info", BadgeColor(settings.FieldFloat))
	assert.Equal(t, "warning", BadgeColor(settings.FieldJSON))
	assert.Equal(t, "primary", BadgeColor(settings.FieldURL))
	assert.Equal(t, "dark", BadgeColor(settings.FieldString))
	assert.Equal(t, "dark", BadgeColor("unknown"))
}

func TestRenderPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	catalog := settings.NewCatalog()
	catalog.Add(settings.NewDescriptor("mail_from", types.Text("a@b.co"), types.Null()))
	catalog.Add(settings.NewDescriptor("api_rate_limit", types.Int(100), types.Int(50)))
	catalog.Add(settings.NewDescriptor("mail_smtp_port", types.Int(587), types.Null()))

	var buf bytes.Buffer
	err = r.RenderPage(&buf, catalog, PageOptions{
		Lang:      "en",
		Languages: []string{"en", "zh-CN"},
		Action:    "/admin/settings",
		Notice:    "Settings updated",
	})
	require.NoError(t, err)
	html := buf.String()

	assert.Contains(t, html, `<html lang="en">`)
	assert.Contains(t, html, `action="/admin/settings"`)
	assert.Contains(t, html, `id="category-mail"`)
	assert.Contains(t, html, `id="category-api"`)
	assert.Contains(t, html, "alert-success")
	assert.Contains(t, html, "Settings updated")
	// mail_smtp_port joins the Mail fieldset opened by mail_from
	assert.Less(t, strings.Index(html, "setting_mail_from"), strings.Index(html, "setting_mail_smtp_port"))
	assert.Less(t, strings.Index(html, "setting_mail_smtp_port"), strings.Index(html, "setting_api_rate_limit"))
	assert.Contains(t, html, `value="50"`)
}

func TestNewPageLegend(t *testing.T) {
	catalog := settings.NewCatalog()
	catalog.Add(settings.NewDescriptor("site_url", types.Text("https://example.com"), types.Null()))
	catalog.Add(settings.NewDescriptor("cache_enabled", types.Bool(true), types.Null()))
	catalog.Add(settings.NewDescriptor("cache_ttl", types.Int(60), types.Null()))
	catalog.Add(settings.NewDescriptor("cache_size", types.Int(10), types.Null()))

	page := NewPage(catalog, PageOptions{})
	assert.Equal(t, []LegendEntry{
		{Type: settings.FieldBoolean, Badge: "success"},
		{Type: settings.FieldInteger, Badge: "info"},
		{Type: settings.FieldURL, Badge: "primary"},
	}, page.Legend)
	assert.Equal(t, "Field types", page.LegendLabel)

	r, err := NewRenderer()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, catalog, PageOptions{}))
	assert.Contains(t, buf.String(), `<span class="badge badge-primary">url</span>`)
	assert.NotContains(t, buf.String(), `>json</span>`)
}

func TestRenderPageEmpty(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, settings.NewCatalog(), PageOptions{Lang: "en"}))
	assert.Contains(t, buf.String(), "No settings available")
	assert.NotContains(t, buf.String(), "<form")
}
