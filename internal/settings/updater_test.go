package settings

import (
	"context"
	"errors"
	"testing"

	app_errors "settings-ui/internal/errors"
	"settings-ui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpdaterStore() *fakeStore {
	return newFakeStore(
		pair("mail_from", types.Text("a@b.com")),
		pair("retries", types.Int(3)),
		pair("enabled", types.Bool(true)),
		pair("ratio", types.Float(0.5)),
		pair("tags", types.Strings([]string{"x"})),
		pair("extra_json", types.Map(map[string]any{})),
	)
}

func submissions(kv ...any) []Submission {
	out := make([]Submission, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Submission{Key: kv[i].(string), Raw: types.FromAny(kv[i+1])})
	}
	return out
}

func TestApplyConvertsByOriginalKind(t *testing.T) {
	store := newUpdaterStore()
	updater := NewUpdater(store, nil)

	report := updater.Apply(context.Background(), submissions(
		"tags", "a, b",
		"retries", "10",
		"enabled", []string{"0", "1"},
		"ratio", "0.75",
		"mail_from", "ops@example.com",
		"extra_json", `{"k": [1]}`,
	), UpdateOptions{})

	require.True(t, report.Succeeded())
	assert.Empty(t, report.FailedKeys())
	assert.True(t, types.Int(10).Equal(store.values["retries"]))
	assert.True(t, types.Bool(true).Equal(store.values["enabled"]))
	assert.True(t, types.Float(0.75).Equal(store.values["ratio"]))
	assert.True(t, types.Strings([]string{"a", "b"}).Equal(store.values["tags"]))
	assert.True(t, types.Text("ops@example.com").Equal(store.values["mail_from"]))
	assert.True(t, types.Map(map[string]any{"k": []any{int64(1)}}).Equal(store.values["extra_json"]))

	// schema order, not submission order
	assert.Equal(t, []string{"mail_from", "retries", "enabled", "ratio", "tags", "extra_json"}, store.writes)
}

func TestApplyDegradedValue(t *testing.T) {
	t.Run("written as raw text", func(t *testing.T) {
		store := newUpdaterStore()
		report := NewUpdater(store, nil).Apply(context.Background(), submissions("extra_json", "{oops"), UpdateOptions{})

		require.Len(t, report.Results, 1)
		res := report.Results[0]
		assert.Equal(t, StatusDegraded, res.Status)
		assert.Contains(t, res.Warning, "setting extra_json")
		assert.True(t, report.Succeeded())
		assert.Equal(t, []string{"extra_json"}, report.DegradedKeys())
		assert.True(t, types.Text("{oops").Equal(store.values["extra_json"]))
	})

	t.Run("rejected", func(t *testing.T) {
		store := newUpdaterStore()
		report := NewUpdater(store, nil).Apply(context.Background(), submissions("retries", "many"), UpdateOptions{RejectDegraded: true})

		assert.False(t, report.Succeeded())
		assert.Equal(t, []string{"retries"}, report.FailedKeys())
		assert.Empty(t, store.writes)

		var convErr *app_errors.ConversionError
		assert.ErrorAs(t, report.FirstError(), &convErr)
	})
}

func TestApplyWriteFailures(t *testing.T) {
	t.Run("continues by default", func(t *testing.T) {
		store := newUpdaterStore()
		store.writeErr["retries"] = errors.New("disk full")

		report := NewUpdater(store, nil).Apply(context.Background(), submissions(
			"retries", "1", "enabled", "1",
		), UpdateOptions{})

		assert.Equal(t, []string{"retries"}, report.FailedKeys())
		assert.Equal(t, []string{"enabled"}, store.writes)
	})

	t.Run("stop on error", func(t *testing.T) {
		store := newUpdaterStore()
		store.writeErr["retries"] = errors.New("disk full")

		report := NewUpdater(store, nil).Apply(context.Background(), submissions(
			"retries", "1", "enabled", "1",
		), UpdateOptions{StopOnError: true})

		require.Len(t, report.Results, 2)
		assert.Equal(t, StatusFailed, report.Results[0].Status)
		assert.Equal(t, StatusSkipped, report.Results[1].Status)
		assert.Empty(t, store.writes)
	})

	t.Run("store unavailable", func(t *testing.T) {
		store := newUpdaterStore()
		store.listErr = errors.New("connection refused")

		report := NewUpdater(store, nil).Apply(context.Background(), submissions("b", "1", "a", "2"), UpdateOptions{})
		require.Len(t, report.Results, 2)
		assert.Equal(t, "a", report.Results[0].Key)
		assert.ErrorIs(t, report.Results[0].Err(), app_errors.ErrStoreUnavailable)
	})

	t.Run("nil store", func(t *testing.T) {
		res := NewUpdater(nil, nil).ApplyOne(context.Background(), "a", types.Text("1"), UpdateOptions{})
		assert.Equal(t, StatusFailed, res.Status)
		assert.ErrorIs(t, res.Err(), app_errors.ErrStoreUnavailable)
	})
}

func TestApplyUnknownKeysFollowSchemaKeys(t *testing.T) {
	store := newUpdaterStore()
	report := NewUpdater(store, nil).Apply(context.Background(), submissions(
		"zeta", "z", "alpha", "a", "retries", "2",
	), UpdateOptions{})

	keys := make([]string, 0)
	for _, res := range report.Results {
		keys = append(keys, res.Key)
	}
	assert.Equal(t, []string{"retries", "alpha", "zeta"}, keys)
	assert.True(t, types.Text("z").Equal(store.values["zeta"]))
}

func TestApplyEmptyClearsOverride(t *testing.T) {
	store := newUpdaterStore()
	store.values["mail_from"] = types.Text("old@example.com")

	res := NewUpdater(store, NewConverter(EmptyAsNull)).ApplyOne(context.Background(), "mail_from", types.Text(""), UpdateOptions{})
	assert.Equal(t, StatusUpdated, res.Status)
	_, stillSet := store.values["mail_from"]
	assert.False(t, stillSet)
}

func TestApplyNoSubmissions(t *testing.T) {
	report := NewUpdater(newUpdaterStore(), nil).Apply(context.Background(), nil, UpdateOptions{})
	assert.Empty(t, report.Results)
	assert.True(t, report.Succeeded())
}
