package handler

import (
	"strings"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/i18n"
	"settings-ui/internal/response"
	"settings-ui/internal/settings"
	"settings-ui/internal/types"

	"github.com/gin-gonic/gin"
)

// UpdateResult is the JSON body returned for a batch or single-key update.
type UpdateResult struct {
	Success      bool                 `json:"success"`
	Results      []settings.KeyResult `json:"results"`
	FailedKeys   []string             `json:"failed_keys"`
	DegradedKeys []string             `json:"degraded_keys"`
}

func newUpdateResult(report *settings.UpdateReport) UpdateResult {
	return UpdateResult{
		Success:      report.Succeeded(),
		Results:      report.Results,
		FailedKeys:   report.FailedKeys(),
		DegradedKeys: report.DegradedKeys(),
	}
}

// GetSettings returns every setting grouped by category.
func (s *Server) GetSettings(c *gin.Context) {
	catalog := s.Builder.Build(c.Request.Context())
	response.Success(c, catalog.Categorized(i18n.Translator(c)))
}

// UpdateSettings applies a JSON object of key to raw value.
func (s *Server) UpdateSettings(c *gin.Context) {
	var body map[string]types.Value
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, i18n.Message(c, "error.invalid_json")))
		return
	}
	if len(body) == 0 {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, i18n.Message(c, "error.no_settings")))
		return
	}

	submissions := make([]settings.Submission, 0, len(body))
	for _, key := range types.SortedKeys(body) {
		submissions = append(submissions, settings.Submission{Key: key, Raw: body[key]})
	}

	opts := s.updateOptions()
	opts.StopOnError = c.Query("stop_on_error") == "true"
	report := s.Updater.Apply(c.Request.Context(), submissions, opts)
	s.respondReport(c, report)
}

// UpdateSettingRequest is the body of a single-key update.
type UpdateSettingRequest struct {
	Value types.Value `json:"value"`
}

// UpdateSetting applies one raw value to the key in the path.
func (s *Server) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, i18n.Message(c, "error.invalid_json")))
		return
	}

	key := c.Param("key")
	result := s.Updater.ApplyOne(c.Request.Context(), key, req.Value, s.updateOptions())
	s.respondReport(c, &settings.UpdateReport{Results: []settings.KeyResult{result}})
}

func (s *Server) respondReport(c *gin.Context, report *settings.UpdateReport) {
	result := newUpdateResult(report)
	if report.Succeeded() {
		message := i18n.Message(c, "notice.updated")
		if len(result.DegradedKeys) > 0 {
			message = i18n.Message(c, "notice.degraded", map[string]any{"Keys": strings.Join(result.DegradedKeys, ", ")})
		}
		response.SuccessWithMessage(c, message, result)
		return
	}

	apiErr := app_errors.FromSettingsError(report.FirstError())
	message := i18n.Message(c, "notice.failed", map[string]any{"Keys": strings.Join(result.FailedKeys, ", ")})
	response.ErrorWithData(c, app_errors.NewAPIError(apiErr, message), result)
}
