package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vartree/pkg/renderers/text"
)

var listCmd = &cobra.Command{
	Use:   "list [schema]",
	Short: "List schemas, or the keys of one schema",
	Long: `Without arguments, list installed schema identifiers grouped on their
dotted segments. With a schema identifier, list its keys with their current
values; keys still on their schema default are marked.

Examples:
  vartree list
  vartree list org.example.editor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	if len(args) == 0 {
		ids, err := a.editor.Schemas(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text.SchemaList(ids, ""))
		return nil
	}

	schemaID := args[0]
	schema, err := a.source.Lookup(ctx, schemaID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, key := range schema.Keys {
		session, err := a.editor.Open(ctx, schemaID, key.Name, keyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", key.Name, err)
			continue
		}
		marker := ""
		if !session.Stored {
			marker = "(default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key.Name, key.Type, session.Root.DisplayValue(), marker)
	}
	return w.Flush()
}
