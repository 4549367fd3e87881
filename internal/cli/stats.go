package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the stats command, which prints vertex and edge
// counts for the configured snapshot, plus a per-label edge tally.
func newStatsCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print graph statistics for a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vertices: %d\n", s.Len())
			fmt.Fprintf(out, "edges:    %d\n", s.EdgeCount())

			directed := 0
			labels := make(map[string]int)
			for e := range s.Edges() {
				if e.Directed() {
					directed++
				}
				labels[e.Label()]++
			}
			if s.EdgeCount() > 0 {
				fmt.Fprintf(out, "directed: %d\n", directed)
			}

			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				display := name
				if display == "" {
					display = "(unlabeled)"
				}
				fmt.Fprintf(out, "  %s: %d\n", display, labels[name])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "configuration file (default docnet.toml)")
	return cmd
}
