// Package settings infers display types and categories for settings and
// coerces submitted form values back into the kind of their defaults.
package settings

import (
	"regexp"
	"strings"

	"settings-ui/internal/types"
)

// FieldType is the inferred display type of a setting.
type FieldType string

const (
	FieldBoolean FieldType = "boolean"
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldText    FieldType = "text"
	FieldEmail   FieldType = "email"
	FieldURL     FieldType = "url"
	FieldArray   FieldType = "array"
	FieldJSON    FieldType = "json"
	FieldString  FieldType = "string"
)

// AllFieldTypes lists every field type in classification order.
var AllFieldTypes = []FieldType{
	FieldBoolean, FieldInteger, FieldFloat, FieldArray, FieldJSON,
	FieldText, FieldEmail, FieldURL, FieldString,
}

// longTextThreshold is the rune count above which a string is edited as text.
const longTextThreshold = 100

var emailPattern = regexp.MustCompile(`(?i)\A[\w+\-.]+@[a-z\d\-]+(\.[a-z\d\-]+)*\.[a-z]+\z`)

// Classify infers the field type from the current value, falling back to the default when the current value is null.
func Classify(defaultValue, currentValue types.Value) FieldType {
	v := currentValue
	if v.IsNull() {
		v = defaultValue
	}

	switch v.Kind() {
	case types.KindBool:
		return FieldBoolean
	case types.KindInt:
		return FieldInteger
	case types.KindFloat:
		return FieldFloat
	case types.KindList:
		return FieldArray
	case types.KindMap:
		return FieldJSON
	}

	return classifyText(v.String())
}

func classifyText(s string) FieldType {
	switch {
	case len([]rune(s)) > longTextThreshold || strings.Contains(s, "\n"):
		return FieldText
	case emailPattern.MatchString(s):
		return FieldEmail
	case strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"):
		return FieldURL
	}
	return FieldString
}
