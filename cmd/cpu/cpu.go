package cpu

import (
	"github.com/spf13/cobra"
)

// CpuCmd groups the commands that run toy assembly
var CpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Run toy assembly interactively, from files or from scripts",
}
