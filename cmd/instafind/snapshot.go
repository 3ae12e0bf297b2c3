package main

import (
	"fmt"

	"github.com/spf13/cobra"

	instafind "github.com/instafind/core"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file>",
	Short: "Print summary information about a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := instafind.LoadSnapshot(args[0], "")
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "root:  %s\n", idx.RootPath())
		fmt.Fprintf(cmd.OutOrStdout(), "nodes: %d\n", idx.Len())
		return nil
	},
}
