package settings

import (
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// descriptionHints are checked in order, the first substring found in the key wins.
var descriptionHints = []struct {
	fragment string
	message  *i18n.Message
}{
	{"mail", &i18n.Message{ID: "setting.description.mail", Other: "Email related configuration"}},
	{"api", &i18n.Message{ID: "setting.description.api", Other: "API configuration"}},
	{"cache", &i18n.Message{ID: "setting.description.cache", Other: "Caching configuration"}},
}

// Describe returns a hint message for keys that mention a known subsystem, or nil.
func Describe(key string) *i18n.Message {
	for _, hint := range descriptionHints {
		if strings.Contains(key, hint.fragment) {
			return hint.message
		}
	}
	return nil
}
