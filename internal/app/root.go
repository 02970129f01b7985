package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/config"
	"github.com/appdrop/appdrop/internal/registry"
)

var (
	flagDBPath    string
	flagConfigDir string

	// RootCmd is the root command for appdrop.
	RootCmd = &cobra.Command{
		Use:   "appdrop",
		Short: "Install AppImage bundles with desktop integration",
		Long: `appdrop installs AppImage files into your per-user applications
directory with full desktop integration: the bundle is copied to
~/Applications, its icon and desktop entry are installed, and the
desktop shell's application index is refreshed. No root required,
and the bundle is never run during installation.

Examples:
  # Install a downloaded bundle
  appdrop install ~/Downloads/Foo-1.0-x86_64.AppImage

  # See what is installed
  appdrop list

  # Look inside a bundle without installing it
  appdrop inspect ~/Downloads/Foo-1.0-x86_64.AppImage

  # Auto-install bundles dropped into ~/Downloads
  appdrop watch

  # Remove an installed application
  appdrop uninstall Foo`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("appdrop: AppImage installation with desktop integration")
			fmt.Println()
			fmt.Println("Run 'appdrop install <file>' to install a bundle.")
			fmt.Println("Run 'appdrop --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "registry database path (default: ~/.local/share/appdrop/appdrop.db)")
	RootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default: ~/.config/appdrop)")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// loadEnvironment resolves settings and the directory layout, applying
// any apps-dir override from the settings file.
func loadEnvironment() (*config.Settings, *config.Paths, error) {
	dir := flagConfigDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
	}

	settings, err := config.LoadSettings(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve user directories: %w", err)
	}
	if settings.AppsDir != "" {
		paths.AppsDir = settings.AppsDir
	}

	return settings, paths, nil
}

// openRegistry opens the installed-apps registry, honoring --db.
func openRegistry(paths *config.Paths) (*registry.Registry, error) {
	path := flagDBPath
	if path == "" {
		var err error
		path, err = paths.RegistryPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve registry path: %w", err)
		}
	}
	reg, err := registry.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	return reg, nil
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "⚠  "+format+"\n", args...)
}
