package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu/isa"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() string{
	"isa": func() string { return isa.Descriptor.DocString() },
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show toyasm documentation",
	Long: `Dumps the documentation of the specified toyasm module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := supportedModules[args[0]]()

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		}

		file, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputFile, err)
		}
		defer file.Close()

		_, err = fmt.Fprintln(file, doc)
		return err
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
