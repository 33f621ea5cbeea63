// Package editor coordinates the full pipeline: schema lookup, stored-value
// retrieval, decomposition into an editable tree, recomposition and commit.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	internalcodec "github.com/goliatone/go-vartree/internal/codec"
	"github.com/goliatone/go-vartree/pkg/codec"
	"github.com/goliatone/go-vartree/pkg/registry"
	"github.com/goliatone/go-vartree/pkg/render"
	"github.com/goliatone/go-vartree/pkg/renderers/text"
	"github.com/goliatone/go-vartree/pkg/store"
)

const defaultRendererName = "text"

// Option customises the editor configuration.
type Option func(*Editor)

// WithSource injects the schema source.
func WithSource(source registry.Source) Option {
	return func(e *Editor) {
		e.source = source
	}
}

// WithStore injects the settings store.
func WithStore(st store.Store) Option {
	return func(e *Editor) {
		e.store = st
	}
}

// WithDecomposer injects a custom decomposer.
func WithDecomposer(d codec.Decomposer) Option {
	return func(e *Editor) {
		e.decomposer = d
	}
}

// WithRecomposer injects a custom recomposer.
func WithRecomposer(r codec.Recomposer) Option {
	return func(e *Editor) {
		e.recomposer = r
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(reg *render.Registry) Option {
	return func(e *Editor) {
		e.renderers = reg
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(e *Editor) {
		e.defaultRenderer = name
	}
}

// WithLogger attaches a logger. Editors are silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// Editor wires the schema source, the store and the codec pair together.
// Missing collaborators are initialised with the built-in implementations so
// callers can start with a single constructor call.
type Editor struct {
	source          registry.Source
	store           store.Store
	decomposer      codec.Decomposer
	recomposer      codec.Recomposer
	renderers       *render.Registry
	defaultRenderer string
	logger          zerolog.Logger
	initialiseErr   error
}

// New constructs an Editor applying any provided options.
func New(options ...Option) *Editor {
	e := &Editor{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	e.applyDefaults()
	return e
}

func (e *Editor) applyDefaults() {
	if e.decomposer == nil {
		e.decomposer = internalcodec.NewDecomposer()
	}
	if e.recomposer == nil {
		e.recomposer = internalcodec.NewRecomposer()
	}
	if e.renderers == nil {
		e.renderers = render.NewRegistry()
		renderer, err := text.New()
		if err != nil {
			e.initialiseErr = fmt.Errorf("editor: initialise text renderer: %w", err)
			return
		}
		e.renderers.MustRegister(renderer)
	}
}

// Schemas lists the schema identifiers known to the source.
func (e *Editor) Schemas(ctx context.Context) ([]string, error) {
	if e.source == nil {
		return nil, errors.New("editor: schema source is required")
	}
	return e.source.Schemas(ctx)
}

// Open resolves the key, loads the stored value (or the schema default when
// nothing is stored) and decomposes it into an edit session. path addresses a
// relocatable schema instance; leave it empty to use the schema's own path.
func (e *Editor) Open(ctx context.Context, schemaID, key, path string) (*Session, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schema, err := e.source.Lookup(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("editor: lookup schema %q: %w", schemaID, err)
	}
	desc, err := schema.Key(key)
	if err != nil {
		return nil, fmt.Errorf("editor: open %s %s: %w", schemaID, key, err)
	}
	meta, err := desc.Metadata(schemaID)
	if err != nil {
		return nil, fmt.Errorf("editor: materialize %s %s: %w", schemaID, key, err)
	}

	if path == "" {
		path = schema.Path
	}
	ref := store.Ref{SchemaID: schemaID, Key: key, Path: path, Sig: meta.DeclaredType}

	val, err := e.store.Get(ctx, ref)
	stored := true
	if err != nil {
		if !errors.Is(err, store.ErrUnset) {
			return nil, fmt.Errorf("editor: load %s: %w", ref, err)
		}
		if meta.Default == nil {
			return nil, fmt.Errorf("editor: %s is unset and declares no default", ref)
		}
		val = meta.Default
		stored = false
	}

	root, err := e.decomposer.Decompose(meta.DeclaredType, val, key)
	if err != nil {
		return nil, fmt.Errorf("editor: decompose %s: %w", ref, err)
	}

	e.logger.Debug().
		Str("ref", ref.String()).
		Bool("stored", stored).
		Msg("session opened")

	return &Session{
		editor:   e,
		Ref:      ref,
		Meta:     meta,
		Root:     root,
		Stored:   stored,
		original: val,
	}, nil
}

// Request describes the inputs required to render one key.
type Request struct {
	SchemaID string
	Key      string
	// Path addresses a relocatable schema instance; empty uses the schema's
	// own path.
	Path string
	// Renderer names the renderer to use. If empty, the editor falls back to
	// the configured default renderer.
	Renderer string
	// Options carries per-request rendering preferences.
	Options render.Options
}

// Render opens the key read-only and serializes it through the requested
// renderer.
func (e *Editor) Render(ctx context.Context, req Request) ([]byte, error) {
	session, err := e.Open(ctx, req.SchemaID, req.Key, req.Path)
	if err != nil {
		return nil, err
	}
	return session.Render(ctx, req.Renderer, req.Options)
}

// Reset removes the stored value so the schema default applies again.
func (e *Editor) Reset(ctx context.Context, schemaID, key, path string) error {
	session, err := e.Open(ctx, schemaID, key, path)
	if err != nil {
		return err
	}
	return session.Reset(ctx)
}

func (e *Editor) ready() error {
	if e.initialiseErr != nil {
		return e.initialiseErr
	}
	if e.source == nil {
		return errors.New("editor: schema source is required")
	}
	if e.store == nil {
		return errors.New("editor: store is required")
	}
	return nil
}

func (e *Editor) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = e.defaultRenderer
	}
	renderer, err := e.renderers.Get(target)
	if err != nil {
		return nil, fmt.Errorf("editor: renderer %q: %w", target, err)
	}
	return renderer, nil
}
