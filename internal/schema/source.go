package schema

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"settings-ui/internal/types"

	"github.com/sirupsen/logrus"
)

// Source supplies the defaults of every known setting.
type Source interface {
	Load(ctx context.Context) (types.Schema, error)
}

// StaticSource serves a schema fixed at construction.
type StaticSource struct {
	schema types.Schema
}

// NewStaticSource creates a map-form source.
func NewStaticSource(pairs ...types.DefaultPair) *StaticSource {
	copied := make([]types.DefaultPair, len(pairs))
	copy(copied, pairs)
	return &StaticSource{schema: types.Schema{Defaults: copied}}
}

// NewStaticFields creates a list-form source from heterogeneous entries.
func NewStaticFields(fields ...any) *StaticSource {
	copied := make([]any, len(fields))
	copy(copied, fields)
	return &StaticSource{schema: types.Schema{Fields: copied}}
}

// Load returns the fixed schema.
func (s *StaticSource) Load(context.Context) (types.Schema, error) {
	return s.schema, nil
}

// FileSource reads a schema document and re-parses it when the file changes.
type FileSource struct {
	path   string
	format Format

	mu      sync.Mutex
	modTime time.Time
	size    int64
	cached  types.Schema
	loaded  bool
}

// NewFileSource creates a source for a schema file. The format follows the extension.
func NewFileSource(path string) (*FileSource, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, format: format}, nil
}

// Path returns the schema file location.
func (s *FileSource) Path() string {
	return s.path
}

// Load returns the parsed schema, using the cached copy while the file is unchanged.
func (s *FileSource) Load(ctx context.Context) (types.Schema, error) {
	if err := ctx.Err(); err != nil {
		return types.Schema{}, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return types.Schema{}, fmt.Errorf("failed to stat schema file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return types.Schema{}, fmt.Errorf("failed to read schema file: %w", err)
	}
	parsed, err := Parse(data, s.format)
	if err != nil {
		return types.Schema{}, fmt.Errorf("%s: %w", s.path, err)
	}

	s.cached = parsed
	s.modTime = info.ModTime()
	s.size = info.Size()
	s.loaded = true

	logrus.WithFields(logrus.Fields{
		"path":    s.path,
		"format":  s.format,
		"entries": parsed.Len(),
	}).Info("Loaded settings schema")
	return parsed, nil
}
