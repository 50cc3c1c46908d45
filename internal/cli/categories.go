package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := loadStores(app)
			if err != nil {
				return err
			}
			cats, err := lib.ListCategories()
			if err != nil {
				return err
			}
			for _, c := range cats {
				docs, err := lib.ListDocuments(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", c, len(docs))
			}
			return nil
		},
	}
	return cmd
}

func newNewCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new-category <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := loadStores(app)
			if err != nil {
				return err
			}
			out := lib.CreateCategory(args[0])
			if !out.OK {
				return errOperation(out.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	return cmd
}
