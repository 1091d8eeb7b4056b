package tools

import (
	"fmt"

	"github.com/Manu343726/toyasm/pkg/config"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var glyphsCmd = &cobra.Command{
	Use:   "glyphs literal...",
	Short: "Render literals as binary glyphs",
	Long: `Prints each decimal or hexadecimal literal with its hexadecimal and glyph
representation, using the configured glyphs.

Example:
  toyasm tools glyphs 5 0x1F 4294967295`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		formatter := interpreter.NewFormatter(c.OutputConfig(false))
		out := cmd.OutOrStdout()

		for _, arg := range args {
			value, ok := interpreter.ResolveLiteral(arg)
			if !ok {
				return fmt.Errorf("'%s' is not a 32 bit decimal or hexadecimal literal", arg)
			}

			fmt.Fprintf(out, "%-12s %s %11d  %s\n", arg, utils.FormatUintHex(uint64(value.Bits()), 8), value, formatter.FormatBinary(value))
		}

		return nil
	},
}

func init() {
	ToolsCmd.AddCommand(glyphsCmd)
}
