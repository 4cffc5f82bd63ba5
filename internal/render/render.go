// Package render turns settings descriptors into the HTML settings form.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"settings-ui/internal/settings"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.html
var templateFS embed.FS

// Bootstrap-style contextual colors shown next to each control.
var badgeColors = map[settings.FieldType]string{
	settings.FieldBoolean: "success",
	settings.FieldInteger: "info",
	settings.FieldFloat:   "info",
	settings.FieldText:    "warning",
	settings.FieldJSON:    "warning",
	settings.FieldEmail:   "primary",
	settings.FieldURL:     "primary",
	settings.FieldArray:   "dark",
	settings.FieldString:  "dark",
}

// BadgeColor returns the badge color of a field type.
func BadgeColor(t settings.FieldType) string {
	if color, found := badgeColors[t]; found {
		return color
	}
	return "dark"
}

// Field is the template view of one descriptor.
type Field struct {
	Key         string
	ID          string
	Name        string
	Label       string
	Type        settings.FieldType
	Badge       string
	Value       string
	Checked     bool
	Default     string
	Description string

	EnabledLabel     string
	ArrayPlaceholder string
	ArrayHint        string
	JSONHint         string
	DefaultLabel     string
}

// Category is the template view of one catalog category.
type Category struct {
	Name   string
	Fields []Field
}

// Page is the template view of the settings page.
type Page struct {
	Lang          string
	Languages     []string
	Title         string
	Subtitle      string
	Action        string
	Notice        string
	NoticeLevel   string
	Categories    []Category
	Legend        []LegendEntry
	LegendLabel   string
	SaveLabel     string
	EmptyLabel    string
	LanguageLabel string
}

// LegendEntry is one field type shown in the page legend.
type LegendEntry struct {
	Type  settings.FieldType
	Badge string
}

// PageOptions carry the request-specific parts of the page.
type PageOptions struct {
	Lang        string
	Languages   []string
	Action      string
	Notice      string
	NoticeLevel string
	Translate   settings.Translator
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates with the sprig function map.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("settings").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func identity(_, fallback string) string { return fallback }

// NewField builds the view of one descriptor.
func NewField(d settings.SettingDescriptor, translate settings.Translator) Field {
	if translate == nil {
		translate = identity
	}

	f := Field{
		Key:     d.Key,
		ID:      "setting_" + d.Key,
		Name:    "settings[" + d.Key + "]",
		Label:   d.Label,
		Type:    d.FieldType,
		Badge:   BadgeColor(d.FieldType),
		Value:   d.DisplayValue(),
		Default: settings.Stringify(d.DefaultValue),

		EnabledLabel:     translate("field.enabled", "Enabled"),
		ArrayPlaceholder: translate("field.array_placeholder", "Enter comma-separated values"),
		ArrayHint:        translate("field.array_hint", "Separate multiple values with commas"),
		JSONHint:         translate("field.json_hint", "Enter a JSON object"),
		DefaultLabel:     translate("page.default", "Default"),
	}
	if d.Description != "" {
		f.Description = translate(d.DescriptionID, d.Description)
	}
	if d.FieldType == settings.FieldBoolean {
		checked, _ := d.CurrentValue.AsBool()
		if d.CurrentValue.IsNull() {
			checked, _ = d.DefaultValue.AsBool()
		}
		f.Checked = checked
	}
	return f
}

// NewPage builds the view of the whole catalog.
func NewPage(catalog *settings.Catalog, opts PageOptions) Page {
	translate := opts.Translate
	if translate == nil {
		translate = identity
	}

	page := Page{
		Lang:          opts.Lang,
		Languages:     opts.Languages,
		Title:         translate("page.title", "Settings"),
		Subtitle:      translate("page.subtitle", "Application configuration"),
		Action:        opts.Action,
		Notice:        opts.Notice,
		NoticeLevel:   opts.NoticeLevel,
		SaveLabel:     translate("page.save", "Save settings"),
		EmptyLabel:    translate("page.empty", "No settings available"),
		LanguageLabel: translate("page.language", "Language"),
		LegendLabel:   translate("page.field_types", "Field types"),
	}
	if catalog == nil {
		return page
	}
	used := make(map[settings.FieldType]bool)
	for _, name := range catalog.Categories() {
		descriptors := catalog.Settings(name)
		category := Category{Name: name, Fields: make([]Field, 0, len(descriptors))}
		for _, d := range descriptors {
			category.Fields = append(category.Fields, NewField(d, translate))
			used[d.FieldType] = true
		}
		page.Categories = append(page.Categories, category)
	}
	for _, t := range settings.AllFieldTypes {
		if used[t] {
			page.Legend = append(page.Legend, LegendEntry{Type: t, Badge: BadgeColor(t)})
		}
	}
	return page
}

// RenderField writes the control of one descriptor.
func (r *Renderer) RenderField(w io.Writer, d settings.SettingDescriptor, translate settings.Translator) error {
	return r.tmpl.ExecuteTemplate(w, "field", NewField(d, translate))
}

// RenderPage writes the full settings page.
func (r *Renderer) RenderPage(w io.Writer, catalog *settings.Catalog, opts PageOptions) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", NewPage(catalog, opts)); err != nil {
		return fmt.Errorf("failed to render settings page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
