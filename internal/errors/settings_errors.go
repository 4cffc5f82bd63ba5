package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when the settings store cannot be reached.
	ErrStoreUnavailable = errors.New("settings store unavailable")

	// ErrUnknownSetting is returned when a key is not part of the settings schema.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrImportInProgress is returned while another snapshot import holds the import lock.
	ErrImportInProgress = errors.New("another settings import is in progress")
)

// ConversionError reports a submitted value that could not be coerced to the
// kind of the setting's default. The raw text is still usable.
type ConversionError struct {
	Key    string
	Raw    string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Raw, e.Target, e.Err)
	}
	return fmt.Sprintf("setting %s: cannot convert %q to %s: %v", e.Key, e.Raw, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// FromSettingsError maps store and conversion failures to API errors.
func FromSettingsError(err error) *APIError {
	if err == nil {
		return nil
	}

	var convErr *ConversionError
	switch {
	case errors.Is(err, ErrUnknownSetting):
		return NewAPIError(ErrResourceNotFound, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		return NewAPIError(ErrServiceDown, err.Error())
	case errors.Is(err, ErrImportInProgress):
		return NewAPIError(ErrConflict, err.Error())
	case errors.As(err, &convErr):
		return NewAPIError(ErrValidation, convErr.Error())
	}
	return ParseDBError(err)
}
