package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNotEditable is returned when an edit is requested against a node
	// that has no leaf value, or against a non-writable key.
	ErrNotEditable = errors.New("tui: node not editable")
	// ErrNoLeaves is returned when an interactive session is opened on a
	// tree with nothing to edit.
	ErrNoLeaves = errors.New("tui: tree has no editable leaves")
)
