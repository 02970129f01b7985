package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appdrop/appdrop/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed applications",
	Long:  `List installed applications, oldest install first.`,
	RunE:  runList,
}

func init() {
	RootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, paths, err := loadEnvironment()
	if err != nil {
		return err
	}

	// Listing is informational; an unopenable registry means nothing
	// is installed as far as this machine can tell.
	reg, err := openRegistry(paths)
	if err != nil {
		warn("registry unavailable: %v", err)
		fmt.Print(output.RenderAppTable(nil))
		return nil
	}
	defer reg.Close()

	fmt.Print(output.RenderAppTable(reg.List()))
	return nil
}
