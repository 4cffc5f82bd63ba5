package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
)

// Submission is one raw key/value pair posted by the settings form or API.
type Submission struct {
	Key string
	Raw types.Value
}

// UpdateOptions control how a batch of submissions is applied.
type UpdateOptions struct {
	// StopOnError skips the remaining keys after the first failed write.
	StopOnError bool
	// RejectDegraded fails keys whose value could not be coerced instead of writing the raw text.
	RejectDegraded bool
}

// ResultStatus is the outcome of one submitted key.
type ResultStatus string

const (
	StatusUpdated  ResultStatus = "updated"
	StatusDegraded ResultStatus = "degraded"
	StatusFailed   ResultStatus = "failed"
	StatusSkipped  ResultStatus = "skipped"
)

// KeyResult records what happened to one submitted key.
type KeyResult struct {
	Key     string       `json:"key"`
	Status  ResultStatus `json:"status"`
	Value   types.Value  `json:"value"`
	Warning string       `json:"warning,omitempty"`
	Error   string       `json:"error,omitempty"`

	err error
}

// Err returns the failure behind a failed or skipped result.
func (r KeyResult) Err() error {
	return r.err
}

// UpdateReport collects per-key results in processing order.
type UpdateReport struct {
	Results []KeyResult `json:"results"`
}

// Succeeded reports whether every key was written.
func (r *UpdateReport) Succeeded() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusSkipped {
			return false
		}
	}
	return true
}

// FailedKeys returns keys that were not written.
func (r *UpdateReport) FailedKeys() []string {
	keys := make([]string, 0)
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusSkipped {
			keys = append(keys, res.Key)
		}
	}
	return keys
}

// DegradedKeys returns keys written as raw text after a failed conversion.
func (r *UpdateReport) DegradedKeys() []string {
	keys := make([]string, 0)
	for _, res := range r.Results {
		if res.Status == StatusDegraded {
			keys = append(keys, res.Key)
		}
	}
	return keys
}

// FirstError returns the first failure in the report, if any.
func (r *UpdateReport) FirstError() error {
	for _, res := range r.Results {
		if res.err != nil {
			return res.err
		}
	}
	return nil
}

// Updater converts submissions and writes them to the store.
type Updater struct {
	store     types.SettingsStore
	converter *Converter
}

// NewUpdater creates an updater. A nil converter uses the null empty input policy.
func NewUpdater(store types.SettingsStore, converter *Converter) *Updater {
	if converter == nil {
		converter = defaultConverter
	}
	return &Updater{store: store, converter: converter}
}

// ApplyOne converts and writes a single key.
func (u *Updater) ApplyOne(ctx context.Context, key string, raw types.Value, opts UpdateOptions) KeyResult {
	report := u.Apply(ctx, []Submission{{Key: key, Raw: raw}}, opts)
	return report.Results[0]
}

// Apply converts each submission against its default and writes it. Keys are
// processed in schema order, unknown keys follow in lexical order.
func (u *Updater) Apply(ctx context.Context, submissions []Submission, opts UpdateOptions) *UpdateReport {
	report := &UpdateReport{Results: make([]KeyResult, 0, len(submissions))}
	if len(submissions) == 0 {
		return report
	}

	raws := make(map[string]types.Value, len(submissions))
	for _, s := range submissions {
		raws[s.Key] = s.Raw
	}

	if u.store == nil {
		for _, key := range types.SortedKeys(raws) {
			report.Results = append(report.Results, failed(key, app_errors.ErrStoreUnavailable))
		}
		return report
	}

	schema, err := u.store.ListDefaults(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to enumerate settings for update")
		cause := fmt.Errorf("%w: %v", app_errors.ErrStoreUnavailable, err)
		for _, key := range types.SortedKeys(raws) {
			report.Results = append(report.Results, failed(key, cause))
		}
		return report
	}

	originals := make(map[string]types.Value)
	order := make([]string, 0, len(raws))
	for _, pair := range ResolveEntries(ctx, schema, u.store.Read) {
		originals[pair.Key] = pair.Default
		if _, submitted := raws[pair.Key]; submitted {
			order = append(order, pair.Key)
		}
	}
	extra := make([]string, 0)
	for key := range raws {
		if _, known := originals[key]; !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	var stopErr error
	for _, key := range order {
		if stopErr != nil {
			report.Results = append(report.Results, KeyResult{
				Key:    key,
				Status: StatusSkipped,
				Error:  "not attempted after an earlier failure",
				err:    stopErr,
			})
			continue
		}

		res := u.applyKey(ctx, key, raws[key], originals[key], opts)
		report.Results = append(report.Results, res)
		if res.Status == StatusFailed && opts.StopOnError {
			stopErr = res.err
		}
	}
	return report
}

func (u *Updater) applyKey(ctx context.Context, key string, raw, original types.Value, opts UpdateOptions) KeyResult {
	conv := u.converter.Convert(raw, original)
	fields := logrus.Fields{"key": key, "kind": original.Kind().String()}

	res := KeyResult{Key: key, Status: StatusUpdated, Value: conv.Value}
	if conv.Degraded() {
		var convErr *app_errors.ConversionError
		if errors.As(conv.Warning, &convErr) {
			convErr.Key = key
		}
		logrus.WithFields(fields).WithError(conv.Warning).Warn("Setting value could not be converted")
		if opts.RejectDegraded {
			return failed(key, conv.Warning)
		}
		res.Status = StatusDegraded
		res.Warning = conv.Warning.Error()
	}

	if err := u.store.Write(ctx, key, conv.Value); err != nil {
		logrus.WithFields(fields).WithError(err).Error("Failed to write setting")
		return failed(key, err)
	}

	logrus.WithFields(fields).Debug("Setting updated")
	return res
}

func failed(key string, err error) KeyResult {
	return KeyResult{Key: key, Status: StatusFailed, Error: err.Error(), err: err}
}
