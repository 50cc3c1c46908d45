package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var category string
	var flat bool

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import markdown files from a directory",
		Long: `Import every markdown file under a directory into the library.

Without --category, each file's immediate parent directory becomes its
category (files directly under the import root land in General).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, status, err := loadStores(app)
			if err != nil {
				return err
			}
			added, failed, messages := lib.ImportDirectory(args[0], category, !flat)
			for _, msg := range messages {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d document(s), %d failed.\n", added, failed)

			// Register the imports so list/stats see them unread right away.
			docs, err := lib.ListDocuments("")
			if err != nil {
				return err
			}
			readMap, err := status.ReadMap(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range docs {
				if _, ok := readMap[d.Path]; ok {
					continue
				}
				if err := status.Add(cmd.Context(), d.Path, d.Category, "", ""); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Import everything into this category instead of by folder")
	cmd.Flags().BoolVar(&flat, "flat", false, "Only the top level of the directory, no subfolders")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <dest>",
		Short: "Copy the whole library to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := loadStores(app)
			if err != nil {
				return err
			}
			out := lib.ExportLibrary(args[0])
			if !out.OK {
				return errOperation(out.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	return cmd
}
