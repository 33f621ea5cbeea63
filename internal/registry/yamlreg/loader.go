// Package yamlreg loads settings schemas from a directory of YAML documents,
// the relocatable-schema analog of the registry contract.
package yamlreg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vartree/pkg/registry"
	"github.com/goliatone/go-vartree/pkg/signature"
)

// Option customises the loader before the first scan.
type Option func(*Loader)

// WithLogger injects a logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader implements registry.Source over a schema directory. Documents are
// scanned lazily on first use and cached until Invalidate.
type Loader struct {
	dir    string
	logger zerolog.Logger

	mu      sync.RWMutex
	schemas map[string]*registry.Schema
}

var _ registry.Source = (*Loader)(nil)

// New constructs a Loader for the given directory.
func New(dir string, options ...Option) *Loader {
	l := &Loader{
		dir:    filepath.Clean(dir),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Dir reports the schema directory the loader scans.
func (l *Loader) Dir() string { return l.dir }

// Schemas returns the sorted schema ids available in the directory.
func (l *Loader) Schemas(ctx context.Context) ([]string, error) {
	schemas, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(schemas))
	for id := range schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Lookup resolves one schema by id.
func (l *Loader) Lookup(ctx context.Context, schemaID string) (*registry.Schema, error) {
	schemas, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	schema, ok := schemas[schemaID]
	if !ok {
		return nil, fmt.Errorf("yamlreg: lookup %q: %w", schemaID, registry.ErrSchemaNotFound)
	}
	return schema, nil
}

// Invalidate drops the cached schema set so the next call rescans the
// directory.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.schemas = nil
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context) (map[string]*registry.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	cached := l.schemas
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("yamlreg: read schema directory: %w", err)
	}

	schemas := make(map[string]*registry.Schema)
	for _, entry := range entries {
		if entry.IsDir() || !isSchemaFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		schema, err := l.loadFile(path)
		if err != nil {
			// A broken document must not take the rest of the directory down.
			l.logger.Warn().Err(err).Str("file", path).Msg("skipping schema document")
			continue
		}
		schemas[schema.ID] = schema
	}

	l.mu.Lock()
	l.schemas = schemas
	l.mu.Unlock()
	return schemas, nil
}

func isSchemaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// schemaDoc is the on-disk YAML shape.
type schemaDoc struct {
	ID   string   `yaml:"id"`
	Path string   `yaml:"path"`
	Keys []keyDoc `yaml:"keys"`
}

type keyDoc struct {
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	Default     string    `yaml:"default"`
	Summary     string    `yaml:"summary"`
	Description string    `yaml:"description"`
	Writable    *bool     `yaml:"writable"`
	Range       *rangeDoc `yaml:"range"`
	Choices     []string  `yaml:"choices"`
}

type rangeDoc struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

func (l *Loader) loadFile(path string) (*registry.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yamlreg: read %s: %w", path, err)
	}
	var doc schemaDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("yamlreg: parse %s: %w", path, err)
	}
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("yamlreg: %s: schema id is required", path)
	}

	schema := &registry.Schema{ID: doc.ID, Path: doc.Path}
	for _, kd := range doc.Keys {
		key, err := l.buildKey(kd)
		if err != nil {
			// One bad key must not make the whole schema undisplayable.
			l.logger.Warn().Err(err).Str("schema", doc.ID).Str("key", kd.Name).Msg("skipping schema key")
			continue
		}
		schema.Keys = append(schema.Keys, key)
	}
	return schema, nil
}

func (l *Loader) buildKey(kd keyDoc) (registry.Key, error) {
	if strings.TrimSpace(kd.Name) == "" {
		return registry.Key{}, fmt.Errorf("yamlreg: key name is required")
	}
	if _, err := signature.Parse(kd.Type); err != nil {
		return registry.Key{}, fmt.Errorf("yamlreg: key %q: %w", kd.Name, err)
	}
	key := registry.Key{
		Name:        kd.Name,
		Type:        kd.Type,
		Default:     kd.Default,
		Summary:     kd.Summary,
		Description: kd.Description,
		Writable:    true,
	}
	if kd.Writable != nil {
		key.Writable = *kd.Writable
	}
	if kd.Range != nil {
		key.Range.Min = kd.Range.Min
		key.Range.Max = kd.Range.Max
	}
	key.Range.Choices = kd.Choices
	return key, nil
}
