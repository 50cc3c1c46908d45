package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var category string
	var title string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a markdown file to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, status, err := loadStores(app)
			if err != nil {
				return err
			}
			out := lib.AddDocument(args[0], category, title)
			// An identical-content duplicate carries the existing path and is
			// informational, not a failure.
			if !out.OK && out.Path == "" {
				return errOperation(out.Message)
			}
			if err := status.Add(cmd.Context(), out.Path, category, args[0], title); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Target category (default: General)")
	cmd.Flags().StringVar(&title, "title", "", "Store under this name instead of the source filename")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, status, err := loadStores(app)
			if err != nil {
				return err
			}
			docs, err := lib.ListDocuments(category)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No documents.")
				return nil
			}
			readMap, err := status.ReadMap(cmd.Context())
			if err != nil {
				return err
			}
			last := ""
			for _, d := range docs {
				if d.Category != last {
					fmt.Fprintf(cmd.OutOrStdout(), "%s/\n", d.Category)
					last = d.Category
				}
				mark := " "
				if readMap[d.Path] {
					mark = "✓"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", mark, d.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only this category")
	return cmd
}

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find documents by filename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, _, err := loadStores(app)
			if err != nil {
				return err
			}
			docs, err := lib.SearchDocuments(args[0])
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No documents matching %q.\n", args[0])
				return nil
			}
			for _, d := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", d.Category, d.Name)
			}
			return nil
		},
	}
	return cmd
}

func newReadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <path>",
		Short: "Mark a document read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setReadFlag(cmd, app, args[0], true)
		},
	}
	return cmd
}

func newUnreadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unread <path>",
		Short: "Mark a document unread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setReadFlag(cmd, app, args[0], false)
		},
	}
	return cmd
}

func setReadFlag(cmd *cobra.Command, app *App, arg string, read bool) error {
	lib, status, err := loadStores(app)
	if err != nil {
		return err
	}
	path := resolveLibraryPath(lib, arg)
	if !lib.Contains(path) {
		return errNotFound("document", arg)
	}
	if _, err := os.Stat(path); err != nil {
		return errNotFound("document", arg)
	}
	if read {
		err = status.MarkRead(cmd.Context(), path)
	} else {
		err = status.MarkUnread(cmd.Context(), path)
	}
	if err != nil {
		return err
	}
	state := "unread"
	if read {
		state = "read"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s: %s\n", state, arg)
	return nil
}
