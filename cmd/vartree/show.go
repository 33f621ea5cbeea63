package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vartree/pkg/editor"
	"github.com/goliatone/go-vartree/pkg/render"
)

var showDetail bool

var showCmd = &cobra.Command{
	Use:   "show <schema> <key>",
	Short: "Show a key's value tree",
	Long: `Decompose the key's current value (or its schema default when unset)
and print the tree. With --detail the schema metadata follows the tree.

Examples:
  vartree show org.example.editor font-size
  vartree show org.example.editor window-state --detail`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showDetail, "detail", false, "include schema metadata")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.editor.Render(cmd.Context(), editor.Request{
		SchemaID: args[0],
		Key:      args[1],
		Path:     keyPath,
		Renderer: rendererName,
		Options:  render.Options{Detail: showDetail},
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}
