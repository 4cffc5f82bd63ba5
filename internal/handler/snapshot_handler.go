package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/i18n"
	"settings-ui/internal/response"
	"settings-ui/internal/snapshot"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxSnapshotSize bounds uploaded snapshot documents.
const maxSnapshotSize = 10 << 20

// ExportSettings downloads a snapshot of every setting.
func (s *Server) ExportSettings(c *gin.Context) {
	format, err := snapshot.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, i18n.Message(c, "error.invalid_format", map[string]any{"Format": c.Query("format")})))
		return
	}
	compression, err := snapshot.ParseCompression(c.Query("compression"))
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, err.Error()))
		return
	}

	snap, err := s.SnapshotService.Export(c.Request.Context(), format)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, snap, format, compression); err != nil {
		logrus.WithError(err).Error("Failed to encode settings snapshot")
		response.Error(c, app_errors.ErrInternalServer)
		return
	}

	contentType := format.ContentType()
	if compression != snapshot.CompressionNone {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, snapshot.FileName(snap, format, compression)))
	c.Header("X-Snapshot-Id", snap.ID)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ImportSettings applies an uploaded snapshot. The document may be sent as the
// multipart field "file" or as the raw request body.
func (s *Server) ImportSettings(c *gin.Context) {
	data, name, err := readSnapshotUpload(c)
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrBadRequest, err.Error()))
		return
	}

	compression := snapshot.Compression("")
	if q := c.Query("compression"); q != "" {
		if compression, err = snapshot.ParseCompression(q); err != nil {
			response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, err.Error()))
			return
		}
	} else if name != "" {
		compression = snapshot.CompressionFromFileName(name)
	}

	snap, err := snapshot.Decode(data, compression)
	if err != nil {
		logrus.WithError(err).Warn("Rejected settings snapshot")
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, i18n.Message(c, "error.invalid_snapshot")))
		return
	}

	format := snapshot.FormatFromFileName(name)
	if q := c.Query("format"); q != "" {
		if format, err = snapshot.ParseFormat(q); err != nil {
			response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, i18n.Message(c, "error.invalid_format", map[string]any{"Format": q})))
			return
		}
	}

	opts := s.updateOptions()
	opts.StopOnError = c.Query("stop_on_error") == "true"
	report, err := s.SnapshotService.Import(c.Request.Context(), snap, format, opts)
	if err != nil {
		if apiErr := app_errors.FromSettingsError(err); apiErr.HTTPStatus == http.StatusConflict {
			response.Error(c, app_errors.NewAPIError(apiErr, i18n.Message(c, "error.import_busy")))
			return
		}
		handleServiceError(c, err)
		return
	}

	if !report.Succeeded() {
		s.respondReport(c, report)
		return
	}
	response.SuccessWithMessage(c, i18n.Message(c, "notice.imported", map[string]any{"Count": len(report.Results)}), newUpdateResult(report))
}

func readSnapshotUpload(c *gin.Context) ([]byte, string, error) {
	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxSnapshotSize {
			return nil, "", fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotSize)
		}
		f, err := file.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return data, file.Filename, err
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxSnapshotSize {
		return nil, "", fmt.Errorf("snapshot exceeds %d bytes", maxSnapshotSize)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty request body")
	}
	return data, "", nil
}

// SnapshotHistory lists recent exports and imports.
func (s *Server) SnapshotHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := s.SnapshotService.History(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, rows)
}
