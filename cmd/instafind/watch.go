package main

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	instafind "github.com/instafind/core"
	"github.com/instafind/core/api"
)

var watchOut string

var watchCmd = &cobra.Command{
	Use:   "watch <root>",
	Short: "Fold a stream of newline-delimited FsEvent JSON from stdin into a live index",
	Long: "watch builds a fresh index over root, then reads one JSON-encoded api.FsEvent per\n" +
		"line of stdin and applies it. The event source is an external collaborator\n" +
		"(macOS FSEvents, Linux inotify, or anything else producing normalized events) —\n" +
		"watch itself does no OS-level change notification.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]

		idx, err := instafind.BuildFromFilesystem(root, instafind.BuildOptions{}, nil)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		applied := 0
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var ev api.FsEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: skipping malformed event: %v\n", err)
				continue
			}
			if err := idx.ApplyEvents([]api.FsEvent{ev}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
				continue
			}
			applied++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read events: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d event(s), %d node(s) live\n", applied, idx.Len())

		if watchOut != "" {
			if err := idx.SaveSnapshot(watchOut); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", watchOut)
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "snapshot path to write once the event stream ends")
}
