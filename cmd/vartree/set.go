package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vartree/pkg/variant"
)

var setLeaf string

var setCmd = &cobra.Command{
	Use:   "set <schema> <key> <value>",
	Short: "Set a key from value text notation",
	Long: `Parse the value in text notation against the key's declared type and
commit it. Compound values use the same notation show prints. With --leaf,
replace a single element instead: the flag takes a dotted child-index path
and the value is the element's new display text.

  vartree set org.example.editor font-size 14
  vartree set org.example.editor theme '"dark"'
  vartree set org.example.editor window-state '(1024, 768)'
  vartree set org.example.editor window-state --leaf 1 768`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setLeaf, "leaf", "", "dotted child-index path of the element to replace")
}

func parseLeafPath(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ".")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("leaf path %q: %w", raw, err)
		}
		out = append(out, i)
	}
	return out, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	session, err := a.editor.Open(ctx, args[0], args[1], keyPath)
	if err != nil {
		return err
	}

	if setLeaf != "" {
		path, err := parseLeafPath(setLeaf)
		if err != nil {
			return err
		}
		if err := session.SetLeaf(path, args[2]); err != nil {
			return err
		}
	} else {
		val, err := variant.ParseText(session.Meta.DeclaredType, args[2])
		if err != nil {
			return fmt.Errorf("parse %q as %s: %w", args[2], session.Meta.DeclaredType.String(), err)
		}
		if err := session.SetValue(val); err != nil {
			return err
		}
	}

	if err := session.Commit(ctx); err != nil {
		return err
	}
	committed, err := session.Value()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", session.Ref, committed.Display())
	return nil
}
