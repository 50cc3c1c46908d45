package cli

import (
	"os"
	"path/filepath"
	"strings"

	"folio-cli/internal/store"
	"folio-cli/internal/tui"

	"github.com/spf13/cobra"
)

// App carries the persistent flags shared by every subcommand.
type App struct {
	Library    string
	ShowHidden bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "folio",
		Short:        "A personal markdown library with a reading TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive library browser
  folio

  # Scriptable commands
  folio add ~/notes/channels.md --category Work
  folio import ~/Downloads/notes
  folio list --category Work
  folio search channel
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Library, "library", envOr("FOLIO_LIBRARY", ""), "Path to the library dir (default: ~/.folio/documents)")
	cmd.PersistentFlags().BoolVar(&app.ShowHidden, "show-hidden", false, "Include hidden (dot-named) categories")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newSearchCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newNewCategoryCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newReadCmd(app))
	cmd.AddCommand(newUnreadCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	lib, status, err := loadStores(app)
	if err != nil {
		return err
	}
	cfg, _ := store.LoadConfig()
	var prefs *store.TUIConfig
	if cfg != nil {
		prefs = cfg.TUI
	}
	return tui.Run(lib, status, prefs)
}

// loadStores resolves the library and status store from flags, env and config,
// bootstrapping the library dir (with default categories) on first use.
func loadStores(app *App) (store.Store, store.StatusStore, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return store.Store{}, store.StatusStore{}, err
	}

	dir := strings.TrimSpace(app.Library)
	if dir == "" {
		dir, err = cfg.ResolvedLibraryDir()
		if err != nil {
			return store.Store{}, store.StatusStore{}, err
		}
	}

	lib := store.Store{
		LibraryDir: dir,
		ShowHidden: app.ShowHidden || cfg.ShowHidden,
	}
	if err := lib.Ensure(cfg.ResolvedDefaultCategories()); err != nil {
		return store.Store{}, store.StatusStore{}, err
	}

	dbPath, err := store.StatusDBPath()
	if err != nil {
		return store.Store{}, store.StatusStore{}, err
	}
	return lib, store.StatusStore{DBPath: dbPath}, nil
}

// resolveLibraryPath turns a CLI document argument into an absolute library
// path: absolute paths pass through, "Category/name.md" is joined onto the
// library root.
func resolveLibraryPath(lib store.Store, arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ""
	}
	if strings.HasPrefix(arg, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			arg = filepath.Join(home, arg[1:])
		}
	}
	if filepath.IsAbs(arg) {
		return filepath.Clean(arg)
	}
	return filepath.Join(lib.LibraryDir, arg)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
