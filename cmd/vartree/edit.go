package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vartree/pkg/renderers/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit <schema> <key>",
	Short: "Edit a key interactively",
	Long: `Open the key's value tree in an interactive prompt session. Booleans
and enumerated keys become selects; other leaves prefill their current text.
Edits are validated element by element and only written back after
confirmation.`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Pick up schema edits made while the session is open.
	go func() {
		if err := a.source.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("schema watch stopped")
		}
	}()

	session, err := a.editor.Open(ctx, args[0], args[1], keyPath)
	if err != nil {
		return err
	}

	prompter := tui.New(tui.WithLogger(a.logger))
	changed, err := prompter.Run(ctx, session.Root, session.Meta)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted, nothing written")
			return nil
		}
		return err
	}
	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
		return nil
	}

	ok, err := prompter.ConfirmCommit(ctx, session.Meta)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "aborted, nothing written")
			return nil
		}
		return err
	}
	if !ok {
		if err := session.Discard(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "discarded")
		return nil
	}

	if err := session.Commit(ctx); err != nil {
		return err
	}
	val, err := session.Value()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", session.Ref, val.Display())
	return nil
}
