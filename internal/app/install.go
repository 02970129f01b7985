package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/bundle"
	"github.com/appdrop/appdrop/internal/config"
	"github.com/appdrop/appdrop/internal/installer"
	"github.com/appdrop/appdrop/internal/output"
)

var (
	installFlagOverwrite bool
	installFlagNoExec    bool
	installFlagYes       bool
)

var installCmd = &cobra.Command{
	Use:   "install <bundle.AppImage>",
	Short: "Install an AppImage bundle",
	Long: `Install an AppImage bundle into your per-user applications directory.

The bundle is copied to ~/Applications, its icon and desktop entry are
installed under ~/.local/share, and the desktop application index is
refreshed. The bundle is parsed, never executed: installing an
application does not launch it.

If an application with the same name is already installed you are asked
whether to replace it. --overwrite skips the question and replaces;
--yes answers yes to it.

Examples:
  appdrop install ~/Downloads/Foo-1.0-x86_64.AppImage
  appdrop install --overwrite ~/Downloads/Foo-2.0-x86_64.AppImage
  appdrop install --no-exec ~/Downloads/Untrusted.AppImage`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installFlagOverwrite, "overwrite", false, "Replace an existing install without asking")
	installCmd.Flags().BoolVar(&installFlagNoExec, "no-exec", false, "Do not mark the installed bundle executable")
	installCmd.Flags().BoolVar(&installFlagYes, "yes", false, "Assume yes on the overwrite prompt")

	RootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	settings, paths, err := loadEnvironment()
	if err != nil {
		return err
	}

	reg, err := openRegistry(paths)
	if err != nil {
		return err
	}
	defer reg.Close()

	spinner := output.NewSpinner("Reading bundle")
	spinner.Start()
	b, err := bundle.Read(args[0])
	spinner.Stop()
	if err != nil {
		return err
	}
	defer b.Release()

	if b.EmbeddedRuntime {
		fmt.Println("Note: this application ships an embedded browser runtime; first launch may be slow.")
	}

	opts := installer.Options{
		Overwrite:      resolveOverwritePolicy(settings, installFlagOverwrite),
		MakeExecutable: settings.MakeExecutable && !installFlagNoExec,
	}

	inst := installer.New(paths, reg)
	res, err := inst.Install(b, opts)

	// A conflict under the cancel policy is a question, not a failure.
	var conflict *installer.AlreadyInstalledError
	if errors.As(err, &conflict) {
		fmt.Printf("%s\n", conflict.Error())
		if !installFlagYes && !promptYesNo(os.Stdin, os.Stdout,
			fmt.Sprintf("Replace the installed %s? [y/N]: ", conflict.Existing.Name)) {
			fmt.Println("Install cancelled.")
			return nil
		}
		opts.Overwrite = installer.PolicyOverwrite
		res, err = inst.Install(b, opts)
	}
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		warn("%s", w)
	}

	if res.App.Version != "" {
		fmt.Printf("✓ Installed %s %s\n", res.App.Name, res.App.Version)
	} else {
		fmt.Printf("✓ Installed %s\n", res.App.Name)
	}
	fmt.Printf("  %s\n", res.App.InstallPath)
	return nil
}

// resolveOverwritePolicy maps the settings default and the --overwrite
// flag onto the installer policy. The flag always wins.
func resolveOverwritePolicy(settings *config.Settings, overwriteFlag bool) installer.OverwritePolicy {
	if overwriteFlag || settings.OnConflict == "overwrite" {
		return installer.PolicyOverwrite
	}
	return installer.PolicyCancel
}

// promptYesNo asks a yes/no question and accepts "y" or "yes".
func promptYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
