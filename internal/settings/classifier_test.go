package settings

import (
	"strings"
	"testing"

	"settings-ui/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		def      types.Value
		current  types.Value
		expected FieldType
	}{
		{"boolean", types.Bool(true), types.Null(), FieldBoolean},
		{"integer", types.Int(3), types.Null(), FieldInteger},
		{"float", types.Float(0.5), types.Null(), FieldFloat},
		{"array", types.Strings([]string{"a"}), types.Null(), FieldArray},
		{"json", types.Map(map[string]any{"k": "v"}), types.Null(), FieldJSON},
		{"email", types.Text("admin@example.com"), types.Null(), FieldEmail},
		{"email upper case", types.Text("Admin@Example.COM"), types.Null(), FieldEmail},
		{"email with plus", types.Text("ops+alerts@mail.example.org"), types.Null(), FieldEmail},
		{"http url", types.Text("http://example.com"), types.Null(), FieldURL},
		{"https url", types.Text("https://example.com/path"), types.Null(), FieldURL},
		{"ftp is a string", types.Text("ftp://example.com"), types.Null(), FieldString},
		{"plain string", types.Text("hello"), types.Null(), FieldString},
		{"newline", types.Text("line one\nline two"), types.Null(), FieldText},
		{"long text", types.Text(strings.Repeat("a", 101)), types.Null(), FieldText},
		{"exactly one hundred", types.Text(strings.Repeat("a", 100)), types.Null(), FieldString},
		{"long email is text", types.Text(strings.Repeat("a", 95) + "@b.com"), types.Null(), FieldText},
		{"both null", types.Null(), types.Null(), FieldString},
		{"current wins", types.Text("x"), types.Bool(false), FieldBoolean},
		{"current int over default text", types.Text("admin@example.com"), types.Int(1), FieldInteger},
		{"null current falls back", types.Int(5), types.Null(), FieldInteger},
		{"multibyte counted by rune", types.Text(strings.Repeat("é", 100)), types.Null(), FieldString},
		{"missing tld", types.Text("a@b"), types.Null(), FieldString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.def, tt.current))
		})
	}
}

func TestClassifyIgnoresKey(t *testing.T) {
	a := NewDescriptor("mail_from", types.Int(1), types.Null())
	b := NewDescriptor("retries", types.Int(1), types.Null())
	assert.Equal(t, a.FieldType, b.FieldType)
}
