package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <schema> <key>",
	Short: "Remove the stored value so the schema default applies",
	Args:  cobra.ExactArgs(2),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.editor.Reset(cmd.Context(), args[0], args[1], keyPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s.%s reset to default\n", args[0], args[1])
	return nil
}
