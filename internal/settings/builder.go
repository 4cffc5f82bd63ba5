package settings

import (
	"context"
	"fmt"

	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
)

// KeyDefault is implemented by schema entries that carry both a key and a default.
type KeyDefault interface {
	Key() string
	Default() any
}

// Named is implemented by schema entries that expose a name. A Default method is optional.
type Named interface {
	Name() string
}

type defaulter interface {
	Default() any
}

// ReadFunc reads the current value of a key. Bare-name schema entries use it as their default.
type ReadFunc func(ctx context.Context, key string) (types.Value, error)

// shapeRule resolves one list-form schema entry into a key and default.
type shapeRule struct {
	name    string
	resolve func(ctx context.Context, entry any, read ReadFunc) (types.DefaultPair, bool)
}

// shapeRules are tried in order, the first match wins.
var shapeRules = []shapeRule{
	{"bare name", resolveBareName},
	{"mapping", resolveMapping},
	{"key/default object", resolveKeyDefault},
	{"named object", resolveNamed},
	{"pair literal", resolvePair},
}

func resolveBareName(ctx context.Context, entry any, read ReadFunc) (types.DefaultPair, bool) {
	var key string
	switch e := entry.(type) {
	case string:
		key = e
	case types.Value:
		s, isText := e.AsText()
		if !isText {
			return types.DefaultPair{}, false
		}
		key = s
	default:
		return types.DefaultPair{}, false
	}

	def := types.Null()
	if read != nil {
		if v, err := read(ctx, key); err == nil {
			def = v
		}
	}
	return types.DefaultPair{Key: key, Default: def}, true
}

func resolveMapping(_ context.Context, entry any, _ ReadFunc) (types.DefaultPair, bool) {
	var m map[string]any
	switch e := entry.(type) {
	case map[string]any:
		m = e
	case map[any]any:
		m = make(map[string]any, len(e))
		for k, v := range e {
			m[fmt.Sprint(k)] = v
		}
	case types.Value:
		var isMap bool
		if m, isMap = e.AsMap(); !isMap {
			return types.DefaultPair{}, false
		}
	default:
		return types.DefaultPair{}, false
	}

	pair := types.DefaultPair{}
	fromSingle := false
	switch {
	case m["name"] != nil:
		pair.Key = fmt.Sprint(m["name"])
	case m["key"] != nil:
		pair.Key = fmt.Sprint(m["key"])
	case len(m) == 1:
		for k := range m {
			pair.Key = k
		}
		fromSingle = true
	default:
		return types.DefaultPair{}, false
	}

	if def, has := m["default"]; has && !fromSingle {
		pair.Default = types.FromAny(def)
	} else if fromSingle {
		pair.Default = types.FromAny(m[pair.Key])
	}
	return pair, true
}

func resolveKeyDefault(_ context.Context, entry any, _ ReadFunc) (types.DefaultPair, bool) {
	e, matches := entry.(KeyDefault)
	if !matches {
		return types.DefaultPair{}, false
	}
	return types.DefaultPair{Key: e.Key(), Default: types.FromAny(e.Default())}, true
}

func resolveNamed(_ context.Context, entry any, _ ReadFunc) (types.DefaultPair, bool) {
	e, matches := entry.(Named)
	if !matches {
		return types.DefaultPair{}, false
	}
	pair := types.DefaultPair{Key: e.Name()}
	if d, has := entry.(defaulter); has {
		pair.Default = types.FromAny(d.Default())
	}
	return pair, true
}

func resolvePair(_ context.Context, entry any, _ ReadFunc) (types.DefaultPair, bool) {
	switch e := entry.(type) {
	case types.DefaultPair:
		return e, true
	case *types.DefaultPair:
		if e != nil {
			return *e, true
		}
	}
	return types.DefaultPair{}, false
}

// ResolveEntries flattens a schema into ordered key/default pairs. List-form
// entries that match no known shape, have an empty key or repeat a key are
// skipped. A nil read leaves bare-name defaults null.
func ResolveEntries(ctx context.Context, schema types.Schema, read ReadFunc) []types.DefaultPair {
	if !schema.IsListForm() {
		return dedupe(schema.Defaults)
	}

	pairs := make([]types.DefaultPair, 0, len(schema.Fields))
	for i, entry := range schema.Fields {
		pair, matched := resolveEntry(ctx, entry, read)
		if !matched || pair.Key == "" {
			logrus.WithFields(logrus.Fields{
				"index": i,
				"entry": fmt.Sprintf("%T", entry),
			}).Debug("Skipping settings schema entry with unrecognized shape")
			continue
		}
		pairs = append(pairs, pair)
	}
	return dedupe(pairs)
}

func resolveEntry(ctx context.Context, entry any, read ReadFunc) (types.DefaultPair, bool) {
	for _, rule := range shapeRules {
		if pair, matched := rule.resolve(ctx, entry, read); matched {
			return pair, true
		}
	}
	return types.DefaultPair{}, false
}

func dedupe(pairs []types.DefaultPair) []types.DefaultPair {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]types.DefaultPair, 0, len(pairs))
	for _, pair := range pairs {
		if _, dup := seen[pair.Key]; dup {
			logrus.WithField("key", pair.Key).Debug("Skipping duplicate settings schema entry")
			continue
		}
		seen[pair.Key] = struct{}{}
		out = append(out, pair)
	}
	return out
}

// Builder assembles the settings catalog from a store.
type Builder struct {
	store types.SettingsStore
}

// NewBuilder creates a catalog builder over the given store.
func NewBuilder(store types.SettingsStore) *Builder {
	return &Builder{store: store}
}

// Build reads every setting and groups the descriptors by category. Store
// failures produce an empty catalog rather than an error.
func (b *Builder) Build(ctx context.Context) *Catalog {
	catalog := NewCatalog()
	if b == nil || b.store == nil {
		logrus.Warn("No settings store configured, rendering empty settings catalog")
		return catalog
	}

	schema, err := b.store.ListDefaults(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to enumerate settings, rendering empty settings catalog")
		return catalog
	}
	if schema.Len() == 0 {
		logrus.Debug("Settings store enumerated no settings")
		return catalog
	}

	for _, pair := range ResolveEntries(ctx, schema, b.store.Read) {
		current, err := b.store.Read(ctx, pair.Key)
		if err != nil {
			logrus.WithError(err).WithField("key", pair.Key).Warn("Failed to read setting, showing its default")
			current = pair.Default
		}
		catalog.Add(NewDescriptor(pair.Key, pair.Default, current))
	}
	return catalog
}
