// Package i18n localizes the settings page, notices and API messages.
package i18n

import (
	"strings"
	"sync"

	"settings-ui/internal/i18n/locales"

	"github.com/gin-gonic/gin"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	// LangQuery is the query parameter and cookie that force a language.
	LangQuery = "lang"
	// contextKey caches the resolved language on the gin context.
	contextKey = "i18n.lang"
)

var (
	bundle      *goi18n.Bundle
	matcher     language.Matcher
	defaultLang = language.English
	once        sync.Once

	supported = []language.Tag{
		language.English,
		language.Make("zh-CN"),
	}
)

func init() {
	Init()
}

// Init builds the message bundle. It is safe to call more than once.
func Init() {
	once.Do(func() {
		bundle = goi18n.NewBundle(language.English)
		addMessages(language.English, locales.MessagesEnUS)
		addMessages(language.Make("zh-CN"), locales.MessagesZhCN)
		matcher = language.NewMatcher(supported)
	})
}

func addMessages(tag language.Tag, messages map[string]string) {
	list := make([]*goi18n.Message, 0, len(messages))
	for id, other := range messages {
		list = append(list, &goi18n.Message{ID: id, Other: other})
	}
	if err := bundle.AddMessages(tag, list...); err != nil {
		logrus.WithError(err).WithField("lang", tag.String()).Error("Failed to load translations")
	}
}

// SetDefaultLanguage changes the language used when a request names none we support.
func SetDefaultLanguage(lang string) {
	if lang == "" {
		return
	}
	tag, err := language.Parse(lang)
	if err != nil {
		logrus.Warnf("Invalid DEFAULT_LOCALE %q, keeping %s", lang, defaultLang)
		return
	}
	defaultLang = Match(tag.String())
}

// Match returns the closest supported language for an Accept-Language style list.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return defaultLang
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return defaultLang
	}
	return supported[index]
}

// Supported lists the languages the bundle carries.
func Supported() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}

// DetectLanguage picks the request language from the lang query, the lang cookie
// or the Accept-Language header, in that order.
func DetectLanguage(c *gin.Context) string {
	if cached := c.GetString(contextKey); cached != "" {
		return cached
	}

	lang := defaultLang
	if q := strings.TrimSpace(c.Query(LangQuery)); q != "" {
		lang = Match(q)
	} else if cookie, err := c.Cookie(LangQuery); err == nil && cookie != "" {
		lang = Match(cookie)
	} else if header := c.GetHeader("Accept-Language"); header != "" {
		lang = Match(header)
	}

	c.Set(contextKey, lang.String())
	return lang.String()
}

// GetLocalizer returns a localizer for the given languages.
func GetLocalizer(langs ...string) *goi18n.Localizer {
	return goi18n.NewLocalizer(bundle, append(langs, defaultLang.String())...)
}

// T localizes a message ID. The ID itself is returned when no translation exists.
func T(localizer *goi18n.Localizer, messageID string, data ...map[string]any) string {
	return Translate(localizer, messageID, messageID, data...)
}

// Translate localizes a message ID, returning fallback when no translation exists.
func Translate(localizer *goi18n.Localizer, messageID, fallback string, data ...map[string]any) string {
	config := &goi18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 {
		config.TemplateData = data[0]
	}
	msg, err := localizer.Localize(config)
	if msg == "" {
		if err != nil {
			logrus.WithError(err).Debug("Missing translation")
		}
		return fallback
	}
	return msg
}

// Message localizes a message ID for the request language.
func Message(c *gin.Context, messageID string, data ...map[string]any) string {
	return T(GetLocalizer(DetectLanguage(c)), messageID, data...)
}

// Translator returns a (messageID, fallback) translation func bound to the request language.
func Translator(c *gin.Context) func(messageID, fallback string) string {
	return TranslatorFor(DetectLanguage(c))
}

// TranslatorFor returns a translation func bound to a language.
func TranslatorFor(lang string) func(messageID, fallback string) string {
	localizer := GetLocalizer(lang)
	return func(messageID, fallback string) string {
		return Translate(localizer, messageID, fallback)
	}
}
