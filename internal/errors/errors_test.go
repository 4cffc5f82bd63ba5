package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected *APIError
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrResourceNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), ErrResourceNotFound},
		{"unique constraint", errors.New("UNIQUE constraint failed: system_settings.setting_key"), ErrDuplicateResource},
		{"mysql duplicate", errors.New("Error 1062: Duplicate entry 'x' for key"), ErrDuplicateResource},
		{"other", errors.New("connection refused"), ErrDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDBError(tt.err))
		})
	}
}

func TestFromSettingsError(t *testing.T) {
	unknown := FromSettingsError(fmt.Errorf("write smtp_host: %w", ErrUnknownSetting))
	assert.Equal(t, http.StatusNotFound, unknown.HTTPStatus)

	down := FromSettingsError(ErrStoreUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, down.HTTPStatus)

	_, parseErr := strconv.Atoi("abc")
	conv := FromSettingsError(&ConversionError{Key: "retries", Raw: "abc", Target: "int", Err: parseErr})
	assert.Equal(t, "VALIDATION_FAILED", conv.Code)
	assert.Contains(t, conv.Message, "retries")

	busy := FromSettingsError(ErrImportInProgress)
	assert.Equal(t, http.StatusConflict, busy.HTTPStatus)
	assert.Equal(t, "CONFLICT", busy.Code)
}

func TestConversionErrorUnwrap(t *testing.T) {
	_, parseErr := strconv.ParseFloat("x", 64)
	err := &ConversionError{Raw: "x", Target: "float", Err: parseErr}

	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Equal(t, `cannot convert "x" to float: strconv.ParseFloat: parsing "x": invalid syntax`, err.Error())
}
