package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/bundle"
	"github.com/appdrop/appdrop/internal/installer"
	"github.com/appdrop/appdrop/internal/watcher"
)

var watchFlagDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Auto-install bundles dropped into a directory",
	Long: `Watch a directory (default ~/Downloads, or drop_dir from the settings
file) and install every AppImage that appears in it, using the
configured defaults. An already-installed application is reported and
skipped unless on_conflict=overwrite is set: unattended runs never
replace an install you did not ask to replace.

Runs in the foreground until interrupted.

Examples:
  appdrop watch
  appdrop watch --dir ~/Desktop`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchFlagDir, "dir", "", "directory to watch (default: drop_dir setting or ~/Downloads)")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	settings, paths, err := loadEnvironment()
	if err != nil {
		return err
	}

	dir := watchFlagDir
	if dir == "" {
		dir = settings.DropDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, "Downloads")
	}

	reg, err := openRegistry(paths)
	if err != nil {
		return err
	}
	defer reg.Close()

	inst := installer.New(paths, reg)
	opts := installer.Options{
		Overwrite:      resolveOverwritePolicy(settings, false),
		MakeExecutable: settings.MakeExecutable,
	}

	w, err := watcher.New(dir, func(path string) {
		installDropped(inst, path, opts)
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	fmt.Printf("Watching %s for AppImage bundles (Ctrl-C to stop)...\n", dir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	fmt.Fprintf(os.Stderr, "received signal %v, shutting down...\n", sig)

	return w.Stop()
}

// installDropped handles one bundle from the drop directory. Errors are
// reported and swallowed: one bad download must not stop the watch.
func installDropped(inst *installer.Installer, path string, opts installer.Options) {
	fmt.Printf("Found %s\n", filepath.Base(path))

	b, err := bundle.Read(path)
	if err != nil {
		warn("skipping %s: %v", filepath.Base(path), err)
		return
	}
	defer b.Release()

	res, err := inst.Install(b, opts)

	var conflict *installer.AlreadyInstalledError
	if errors.As(err, &conflict) {
		fmt.Printf("  %s; run 'appdrop install --overwrite %s' to replace it\n",
			conflict.Error(), path)
		return
	}
	if err != nil {
		warn("installing %s: %v", filepath.Base(path), err)
		return
	}

	for _, w := range res.Warnings {
		warn("%s", w)
	}
	fmt.Printf("✓ Installed %s\n", res.App.Name)
}
