package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/bundle"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <bundle.AppImage>",
	Short: "Show a bundle's metadata without installing it",
	Long: `Parse a bundle and print what an install would use: the application
name, version, icon, launch command and the full desktop entry. Nothing
is installed, nothing is made executable, and the bundle is not run.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	b, err := bundle.Read(args[0])
	if err != nil {
		return err
	}
	defer b.Release()

	fmt.Printf("File:     %s\n", b.SourcePath)
	fmt.Printf("Name:     %s\n", b.Name())
	if b.Version() != "" {
		fmt.Printf("Version:  %s\n", b.Version())
	}
	fmt.Printf("Exec:     %s\n", b.Entry.Exec)
	if b.Entry.Icon != "" {
		fmt.Printf("Icon:     %s", b.Entry.Icon)
		if b.IconPath == "" {
			fmt.Print("  (not found in image; generic icon would be used)")
		}
		fmt.Println()
	}
	if len(b.Entry.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(b.Entry.Categories, ", "))
	}
	if b.Entry.Comment != "" {
		fmt.Printf("Comment:  %s\n", b.Entry.Comment)
	}
	if b.EmbeddedRuntime {
		fmt.Println("Runtime:  embedded browser runtime (slow first launch)")
	}

	fmt.Println("\nDesktop entry:")
	keys := make([]string, 0, len(b.Entry.Fields))
	for k := range b.Entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s=%s\n", k, b.Entry.Fields[k])
	}

	return nil
}
