// Package tui drives interactive key editing over a prompt abstraction. The
// default driver uses survey; tests inject scripted drivers.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	internalcodec "github.com/goliatone/go-vartree/internal/codec"
	"github.com/goliatone/go-vartree/pkg/model"
	"github.com/goliatone/go-vartree/pkg/signature"
)

const saveLabel = "save and exit"

// Option configures the interactive editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithLogger attaches a logger. Editors are silent by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithPageSize caps how many entries select prompts show at once.
func WithPageSize(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// Editor walks a value tree interactively, prompting for replacement leaf
// text and recording edits on the tree in place.
type Editor struct {
	driver   PromptDriver
	logger   zerolog.Logger
	pageSize int
}

// New constructs an interactive editor backed by a terminal prompt driver.
func New(options ...Option) *Editor {
	e := &Editor{
		driver: newSurveyDriver(),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Run prompts for edits until the user saves. Edits are applied to the tree
// via pending text leaves; the caller decides whether to commit them. The
// returned flag reports whether anything changed.
func (e *Editor) Run(ctx context.Context, root *model.ValueNode, meta model.KeyMetadata) (bool, error) {
	if !meta.Writable {
		return false, fmt.Errorf("tui: %s is read only: %w", meta.KeyName, ErrNotEditable)
	}
	leaves := collectLeaves(root)
	if len(leaves) == 0 {
		return false, ErrNoLeaves
	}

	// A scalar key has a single leaf and needs no navigation.
	if len(leaves) == 1 && leaves[0].node == root {
		text, err := e.EditLeaf(ctx, root, meta)
		if err != nil {
			return false, err
		}
		changed := text != root.DisplayValue()
		if changed {
			root.SetLeafText(text)
		}
		return changed, nil
	}

	changed := false
	for {
		labels := make([]string, 0, len(leaves)+1)
		for _, leaf := range leaves {
			labels = append(labels, leaf.label+" = "+leaf.node.DisplayValue())
		}
		labels = append(labels, saveLabel)

		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:  meta.KeyName,
			Options:  labels,
			PageSize: e.pageSize,
		})
		if err != nil {
			return changed, err
		}
		if idx < 0 || idx >= len(leaves) {
			return changed, nil
		}

		leaf := leaves[idx]
		text, err := e.EditLeaf(ctx, leaf.node, meta)
		if err != nil {
			return changed, err
		}
		if text != leaf.node.DisplayValue() {
			leaf.node.SetLeafText(text)
			changed = true
			e.logger.Debug().Str("element", leaf.label).Str("text", text).Msg("leaf edited")
		}
	}
}

// EditLeaf prompts for a replacement value for a single leaf node. Booleans
// and enumerated keys become selects; everything else is free text validated
// against the leaf's primitive kind and any declared bounds.
func (e *Editor) EditLeaf(ctx context.Context, node *model.ValueNode, meta model.KeyMetadata) (string, error) {
	if node.Leaf == nil {
		return "", ErrNotEditable
	}
	current := node.DisplayValue()
	help := promptHelp(node, meta)

	if node.Sig.Kind() == signature.KindBoolean {
		options := []string{"True", "False"}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      node.Name,
			Options:      options,
			DefaultIndex: indexOf(options, current),
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		return options[idx], nil
	}

	if choices := enumChoices(node, meta); len(choices) > 0 {
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      node.Name,
			Options:      choices,
			DefaultIndex: indexOf(choices, current),
			Help:         help,
			PageSize:     e.pageSize,
		})
		if err != nil {
			return "", err
		}
		return choices[idx], nil
	}

	return e.driver.Input(ctx, InputConfig{
		Message:   node.Name,
		Default:   current,
		Help:      help,
		Validator: e.validator(node, meta),
	})
}

// promptHelp combines the key summary with the node's schema default: the
// whole declared default for a root leaf, the element at the node's sibling
// position for a direct child of the root compound.
func promptHelp(node *model.ValueNode, meta model.KeyMetadata) string {
	help := meta.Summary
	def := elementDefault(node, meta)
	if def == "" {
		return help
	}
	if help == "" {
		return "default: " + def
	}
	return help + " (default: " + def + ")"
}

func elementDefault(node *model.ValueNode, meta model.KeyMetadata) string {
	if meta.Default == nil {
		return ""
	}
	// Defaults are declared per key, so only the root leaf and first-level
	// elements have a resolvable position.
	if node.Parent != nil && node.Parent.Parent != nil {
		return ""
	}
	def, err := model.ResolveDefault(meta.Default, node.Parent == nil, node.SiblingIndex())
	if err != nil {
		return ""
	}
	return def.Display()
}

// validator builds a per-keystroke check for free text edits.
func (e *Editor) validator(node *model.ValueNode, meta model.KeyMetadata) func(string) error {
	sig := node.Sig
	applyRange := node.Parent == nil && meta.Range.Kind != model.RangeNone
	return func(text string) error {
		val, err := internalcodec.CoerceText(text, sig)
		if err != nil {
			return fmt.Errorf("not a valid %s", sig.String())
		}
		if applyRange && !meta.Range.Allows(val) {
			return fmt.Errorf("outside the allowed range")
		}
		return nil
	}
}

// enumChoices returns display spellings when the key declares an enumerated
// range and this leaf is the node the range constrains.
func enumChoices(node *model.ValueNode, meta model.KeyMetadata) []string {
	if meta.Range.Kind != model.RangeEnum || node.Parent != nil {
		return nil
	}
	choices := make([]string, 0, len(meta.Range.Choices))
	for _, c := range meta.Range.Choices {
		choices = append(choices, c.Display())
	}
	return choices
}

type leafRef struct {
	node  *model.ValueNode
	label string
}

func collectLeaves(root *model.ValueNode) []leafRef {
	var out []leafRef
	var walk func(n *model.ValueNode, trail []string)
	walk = func(n *model.ValueNode, trail []string) {
		if n.Leaf != nil {
			label := strings.Join(trail, ".")
			if label == "" {
				label = n.Name
			}
			out = append(out, leafRef{node: n, label: label})
			return
		}
		for _, child := range n.Children {
			walk(child, append(trail, child.Name))
		}
	}
	if root.Leaf != nil {
		return []leafRef{{node: root, label: root.Name}}
	}
	for _, child := range root.Children {
		walk(child, []string{child.Name})
	}
	return out
}

// ConfirmCommit asks whether pending edits should be written back.
func (e *Editor) ConfirmCommit(ctx context.Context, meta model.KeyMetadata) (bool, error) {
	return e.driver.Confirm(ctx, ConfirmConfig{
		Message: "write " + meta.SchemaID + " " + meta.KeyName + "?",
		Default: true,
	})
}

// Show prints a short informational line through the driver.
func (e *Editor) Show(ctx context.Context, format string, args ...any) error {
	return e.driver.Info(ctx, fmt.Sprintf(format, args...))
}
