package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lockCmd = &cobra.Command{
	Use:   "lock <schema> <key>",
	Short: "Lock a key so writes are rejected",
	Args:  cobra.ExactArgs(2),
	RunE:  runLock,
}

var unlockCmd = &cobra.Command{
	Use:   "unlock <schema> <key>",
	Short: "Remove a key's write lock",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnlock,
}

func init() {
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
}

func runLock(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Lock(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s.%s locked\n", args[0], args[1])
	return nil
}

func runUnlock(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Unlock(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s.%s unlocked\n", args[0], args[1])
	return nil
}
