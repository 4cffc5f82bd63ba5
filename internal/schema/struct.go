package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"settings-ui/internal/types"
)

// Field is a schema entry derived from a struct field.
type Field struct {
	key string
	def any
}

// Key returns the setting key taken from the json tag.
func (f Field) Key() string { return f.key }

// Default returns the typed value parsed from the default tag.
func (f Field) Default() any { return f.def }

// FromStruct builds list-form entries from the `json` and `default` tags of a
// struct. Fields without a json name are skipped.
func FromStruct(v any) ([]any, error) {
	rt := reflect.TypeOf(v)
	if rt != nil && rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema source must be a struct, got %T", v)
	}

	fields := make([]any, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := strings.Split(sf.Tag.Get("json"), ",")[0]
		if key == "" || key == "-" {
			continue
		}

		def, err := parseDefaultTag(sf.Type, sf.Tag.Get("default"))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		fields = append(fields, Field{key: key, def: def})
	}
	return fields, nil
}

func parseDefaultTag(t reflect.Type, tag string) (any, error) {
	switch t.Kind() {
	case reflect.Bool:
		if tag == "" {
			return false, nil
		}
		return strconv.ParseBool(tag)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if tag == "" {
			return int64(0), nil
		}
		return strconv.ParseInt(tag, 10, 64)
	case reflect.Float32, reflect.Float64:
		if tag == "" {
			return float64(0), nil
		}
		return strconv.ParseFloat(tag, 64)
	case reflect.String:
		return tag, nil
	case reflect.Slice:
		items := make([]string, 0)
		for _, part := range strings.Split(tag, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		return items, nil
	case reflect.Map:
		if tag == "" {
			return map[string]any{}, nil
		}
		parsed, err := types.ParseJSON(tag)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON default: %w", err)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("unsupported field type %s", t)
}
