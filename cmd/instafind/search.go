package main

import (
	"fmt"

	"github.com/spf13/cobra"

	instafind "github.com/instafind/core"
)

var (
	searchRoot        string
	searchSnapshot    string
	searchInsensitive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one query against a live walk or a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := openIndex(searchRoot, searchSnapshot)
		if err != nil {
			return err
		}

		out, err := idx.Search(args[0], instafind.SearchOptions{CaseInsensitive: searchInsensitive}, nil)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		for _, n := range idx.ExpandNodes(out.Nodes) {
			fmt.Fprintln(cmd.OutOrStdout(), n.Path)
		}
		if len(out.Highlights) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "highlights: %v\n", out.Highlights)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchRoot, "root", "", "directory to walk live (with --snapshot: the root the snapshot must record)")
	searchCmd.Flags().StringVar(&searchSnapshot, "snapshot", "", "snapshot file to load instead of walking")
	searchCmd.Flags().BoolVarP(&searchInsensitive, "insensitive", "i", false, "case-insensitive matching")
}

// openIndex resolves search's --root/--snapshot flag pair: a snapshot, when
// given, is loaded (and must record --root as its root if both are set);
// otherwise --root is walked live.
func openIndex(root, snapshotPath string) (*instafind.Index, error) {
	switch {
	case snapshotPath != "" && root != "":
		return instafind.LoadSnapshot(snapshotPath, root)
	case snapshotPath != "":
		return instafind.LoadSnapshot(snapshotPath, "")
	case root != "":
		return instafind.BuildFromFilesystem(root, instafind.BuildOptions{}, nil)
	default:
		return nil, fmt.Errorf("one of --root or --snapshot is required")
	}
}
