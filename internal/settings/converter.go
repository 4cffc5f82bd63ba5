package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/types"
)

// EmptyPolicy decides what a blank submission becomes for text and map settings.
type EmptyPolicy int

const (
	// EmptyAsNull clears the override so the setting falls back to its default.
	EmptyAsNull EmptyPolicy = iota
	// EmptyAsString stores the submitted text as is.
	EmptyAsString
)

func (p EmptyPolicy) String() string {
	if p == EmptyAsString {
		return "empty"
	}
	return "null"
}

// ParseEmptyPolicy reads the EMPTY_INPUT_POLICY configuration value.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "nil":
		return EmptyAsNull, nil
	case "empty", "string":
		return EmptyAsString, nil
	}
	return EmptyAsNull, fmt.Errorf("invalid empty input policy %q, expected null or empty", s)
}

var (
	errNotIntegral = errors.New("not an integral number")
	errNotFinite   = errors.New("not a finite number")
	errNotObject   = errors.New("JSON value is not an object")
)

// Conversion is the result of coercing a submitted value. A conversion with a
// warning is degraded: Value then holds the raw submission as text.
type Conversion struct {
	Value   types.Value
	Warning error
}

// Degraded reports whether the submission could not be coerced to the original kind.
func (c Conversion) Degraded() bool {
	return c.Warning != nil
}

func converted(v types.Value) Conversion {
	return Conversion{Value: v}
}

func degrade(raw string, target string, err error) Conversion {
	return Conversion{
		Value:   types.Text(raw),
		Warning: &app_errors.ConversionError{Raw: raw, Target: target, Err: err},
	}
}

// Converter coerces raw submissions into the kind of a setting's default.
type Converter struct {
	EmptyPolicy EmptyPolicy
}

// NewConverter creates a converter with the given empty input policy.
func NewConverter(policy EmptyPolicy) *Converter {
	return &Converter{EmptyPolicy: policy}
}

var defaultConverter = NewConverter(EmptyAsNull)

// Convert coerces raw using the default converter.
func Convert(raw, original types.Value) Conversion {
	return defaultConverter.Convert(raw, original)
}

// Stringify renders a value the way the form shows it. Convert(Stringify(v), v)
// reconstructs v for boolean, numeric, list and map values.
func Stringify(v types.Value) string {
	return v.String()
}

// Convert branches on the kind of original, the setting's default, not on the classified field type.
func (c *Converter) Convert(raw, original types.Value) Conversion {
	if raw.IsNull() {
		return converted(types.Null())
	}

	switch original.Kind() {
	case types.KindBool:
		return converted(types.Bool(checkboxValue(raw)))
	case types.KindInt:
		return convertInt(raw)
	case types.KindFloat:
		return convertFloat(raw)
	case types.KindList:
		return convertList(raw, original)
	case types.KindMap:
		return c.convertMap(raw)
	}
	return c.convertText(raw)
}

// checkboxValue reads a checkbox submission. Checked boxes post the hidden "0"
// together with "1"; any other list is unchecked.
func checkboxValue(raw types.Value) bool {
	if items, isList := raw.AsList(); isList {
		if len(items) != 2 {
			return false
		}
		for _, item := range items {
			if s, isText := item.AsText(); isText && s == "1" {
				return true
			}
		}
		return false
	}

	if b, isBool := raw.AsBool(); isBool {
		return b
	}
	s, _ := raw.AsText()
	return s == "1" || s == "true"
}

func convertInt(raw types.Value) Conversion {
	switch raw.Kind() {
	case types.KindInt:
		return converted(raw)
	case types.KindFloat:
		f, _ := raw.AsFloat()
		if i, exact := floatToInt(f); exact {
			return converted(types.Int(i))
		}
		return degrade(raw.String(), "int", errNotIntegral)
	}

	text := strings.TrimSpace(raw.String())
	if text == "" {
		return converted(types.Int(0))
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return converted(types.Int(i))
	}
	if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
		if i, exact := floatToInt(f); exact {
			return converted(types.Int(i))
		}
		return degrade(raw.String(), "int", errNotIntegral)
	}
	return degrade(raw.String(), "int", err)
}

func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func convertFloat(raw types.Value) Conversion {
	switch raw.Kind() {
	case types.KindFloat:
		return converted(raw)
	case types.KindInt:
		i, _ := raw.AsInt()
		return converted(types.Float(float64(i)))
	}

	text := strings.TrimSpace(raw.String())
	if text == "" {
		return converted(types.Float(0))
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return degrade(raw.String(), "float", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return degrade(raw.String(), "float", errNotFinite)
	}
	return converted(types.Float(f))
}

func convertList(raw, original types.Value) Conversion {
	if raw.Kind() == types.KindList {
		return converted(raw)
	}

	text := raw.String()
	pieces := splitList(text)
	elem, typed := elementKind(original)
	if !typed {
		return converted(types.Strings(pieces))
	}

	items := make([]types.Value, len(pieces))
	for i, piece := range pieces {
		v, err := parseScalar(piece, elem)
		if err != nil {
			return Conversion{
				Value:   types.Strings(pieces),
				Warning: &app_errors.ConversionError{Raw: text, Target: "list of " + elem.String(), Err: err},
			}
		}
		items[i] = v
	}
	return converted(types.List(items...))
}

func splitList(text string) []string {
	pieces := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

// elementKind returns the scalar kind shared by every element of a non-empty list.
func elementKind(list types.Value) (types.Kind, bool) {
	items, _ := list.AsList()
	if len(items) == 0 {
		return types.KindText, false
	}

	kind := items[0].Kind()
	if kind != types.KindBool && kind != types.KindInt && kind != types.KindFloat {
		return types.KindText, false
	}
	for _, item := range items[1:] {
		if item.Kind() != kind {
			return types.KindText, false
		}
	}
	return kind, true
}

func parseScalar(piece string, kind types.Kind) (types.Value, error) {
	switch kind {
	case types.KindBool:
		b, err := strconv.ParseBool(piece)
		return types.Bool(b), err
	case types.KindInt:
		i, err := strconv.ParseInt(piece, 10, 64)
		return types.Int(i), err
	case types.KindFloat:
		f, err := strconv.ParseFloat(piece, 64)
		return types.Float(f), err
	}
	return types.Text(piece), nil
}

func (c *Converter) convertMap(raw types.Value) Conversion {
	if raw.Kind() == types.KindMap {
		return converted(raw)
	}

	text := raw.String()
	if strings.TrimSpace(text) == "" {
		return c.empty(text)
	}

	parsed, err := types.ParseJSON(text)
	if err != nil {
		return degrade(text, "map", err)
	}
	m, isObject := parsed.(map[string]any)
	if !isObject {
		return degrade(text, "map", errNotObject)
	}
	return converted(types.Map(m))
}

func (c *Converter) convertText(raw types.Value) Conversion {
	text := raw.String()
	if strings.TrimSpace(text) == "" {
		return c.empty(text)
	}
	if raw.Kind() == types.KindText {
		return converted(raw)
	}
	return converted(types.Text(text))
}

func (c *Converter) empty(text string) Conversion {
	if c.EmptyPolicy == EmptyAsString {
		return converted(types.Text(text))
	}
	return converted(types.Null())
}
