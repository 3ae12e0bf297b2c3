package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	instafind "github.com/instafind/core"
)

var buildIgnore []string

var buildCmd = &cobra.Command{
	Use:   "build <root> <snapshot>",
	Short: "Walk a directory and write a snapshot of the index",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, snapshotPath := args[0], args[1]

		start := time.Now()
		fmt.Fprintf(cmd.OutOrStdout(), "Walking %s...\n", root)
		idx, err := instafind.BuildFromFilesystem(root, instafind.BuildOptions{IgnoreRules: buildIgnore}, nil)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d nodes in %v\n", idx.Len(), time.Since(start))

		if err := idx.SaveSnapshot(snapshotPath); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", snapshotPath)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringSliceVar(&buildIgnore, "ignore", nil, "absolute path prefix or gitignore-style pattern to skip (repeatable)")
}
