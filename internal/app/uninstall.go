package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/installer"
	"github.com/appdrop/appdrop/internal/registry"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed application",
	Long: `Remove an installed application: its bundle copy, icon, desktop entry
and registry record. Matching is by application name, case-insensitive.

Examples:
  appdrop uninstall Foo
  appdrop uninstall "My App"`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	RootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	_, paths, err := loadEnvironment()
	if err != nil {
		return err
	}

	reg, err := openRegistry(paths)
	if err != nil {
		return err
	}
	defer reg.Close()

	inst := installer.New(paths, reg)
	res, err := inst.Uninstall(registry.IdentityFor(args[0]))
	if errors.Is(err, installer.ErrNotInstalled) {
		return fmt.Errorf("%q is not installed (try 'appdrop list')", args[0])
	}
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		warn("%s", w)
	}
	fmt.Printf("✓ Uninstalled %s\n", res.App.Name)
	return nil
}
