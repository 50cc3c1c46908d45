package cli

import (
	"fmt"

	"folio-cli/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, t := range docs.Topics() {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			body, ok := docs.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown docs topic: %q (run `folio docs` to list topics)", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			return nil
		},
	}
	return cmd
}
