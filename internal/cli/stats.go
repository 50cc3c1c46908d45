package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Library and read-status statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, status, err := loadStores(app)
			if err != nil {
				return err
			}

			libStats, err := lib.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Documents:  %d\n", libStats.Documents)
			fmt.Fprintf(cmd.OutOrStdout(), "Categories: %d\n", libStats.Categories)
			fmt.Fprintf(cmd.OutOrStdout(), "Size:       %.2f MB\n", libStats.TotalMB)

			stStats, err := status.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Read:       %d of %d tracked\n", stStats.Read, stStats.Total)
			for _, c := range stStats.ByCategory {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %d\n", c.Category, c.Count)
			}

			if prune {
				docs, err := lib.ListDocuments("")
				if err != nil {
					return err
				}
				existing := make(map[string]bool, len(docs))
				for _, d := range docs {
					existing[d.Path] = true
				}
				n, err := status.Prune(cmd.Context(), existing)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d orphaned status record(s).\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Drop status records whose documents no longer exist")
	return cmd
}
