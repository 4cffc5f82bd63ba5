package handler

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"settings-ui/internal/i18n"
	"settings-ui/internal/render"
	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettingsPagePath is where the HTML settings form lives.
const SettingsPagePath = "/admin/settings"

// Notice codes carried through the post/redirect/get cycle.
const (
	noticeUpdated  = "updated"
	noticeDegraded = "degraded"
	noticeFailed   = "failed"
)

// ShowSettingsPage renders the settings form.
func (s *Server) ShowSettingsPage(c *gin.Context) {
	lang := i18n.DetectLanguage(c)
	if c.Query(i18n.LangQuery) != "" {
		c.SetCookie(i18n.LangQuery, lang, 86400*365, "/", "", false, false)
	}
	translate := i18n.TranslatorFor(lang)

	notice, level := pageNotice(c, lang)
	catalog := s.Builder.Build(c.Request.Context())

	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err := s.Renderer.RenderPage(c.Writer, catalog, render.PageOptions{
		Lang:        lang,
		Languages:   i18n.Supported(),
		Action:      SettingsPagePath,
		Notice:      notice,
		NoticeLevel: level,
		Translate:   translate,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to render settings page")
		c.String(http.StatusInternalServerError, "failed to render settings page")
	}
}

func pageNotice(c *gin.Context, lang string) (string, string) {
	localizer := i18n.GetLocalizer(lang)
	keys := map[string]any{"Keys": c.Query("keys")}
	switch c.Query("notice") {
	case noticeUpdated:
		return i18n.T(localizer, "notice.updated"), "success"
	case noticeDegraded:
		return i18n.T(localizer, "notice.degraded", keys), "warning"
	case noticeFailed:
		return i18n.T(localizer, "notice.failed", keys), "danger"
	}
	return "", ""
}

// SubmitSettingsPage applies the posted form and redirects back with a notice.
func (s *Server) SubmitSettingsPage(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		logrus.WithError(err).Warn("Failed to parse settings form")
		c.String(http.StatusBadRequest, i18n.Message(c, "error.invalid_format", map[string]any{"Format": "form"}))
		return
	}

	submissions := ParseSettingsForm(c.Request.PostForm)
	report := s.Updater.Apply(c.Request.Context(), submissions, s.updateOptions())

	query := url.Values{}
	switch {
	case !report.Succeeded():
		query.Set("notice", noticeFailed)
		query.Set("keys", strings.Join(report.FailedKeys(), ", "))
	case len(report.DegradedKeys()) > 0:
		query.Set("notice", noticeDegraded)
		query.Set("keys", strings.Join(report.DegradedKeys(), ", "))
	default:
		query.Set("notice", noticeUpdated)
	}

	logrus.WithFields(logrus.Fields{
		"submitted": len(submissions),
		"failed":    len(report.FailedKeys()),
		"degraded":  len(report.DegradedKeys()),
	}).Info("Settings form submitted")

	c.Redirect(http.StatusSeeOther, SettingsPagePath+"?"+query.Encode())
}

// ParseSettingsForm collects settings[key] fields. A repeated plain field keeps
// its last value, so a checked checkbox overrides its hidden "0". Fields named
// settings[key][] become lists.
func ParseSettingsForm(form url.Values) []settings.Submission {
	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)

	submissions := make([]settings.Submission, 0, len(names))
	for _, name := range names {
		if !strings.HasPrefix(name, "settings[") {
			continue
		}
		values := form[name]
		inner := strings.TrimPrefix(name, "settings[")

		if key, isList := strings.CutSuffix(inner, "][]"); isList && key != "" {
			items := make([]types.Value, 0, len(values))
			for _, v := range values {
				items = append(items, types.Text(v))
			}
			submissions = append(submissions, settings.Submission{Key: key, Raw: types.List(items...)})
			continue
		}

		key, closed := strings.CutSuffix(inner, "]")
		if !closed || key == "" || strings.ContainsAny(key, "[]") || len(values) == 0 {
			continue
		}
		submissions = append(submissions, settings.Submission{Key: key, Raw: types.Text(values[len(values)-1])})
	}
	return submissions
}
