package cpu

import (
	"fmt"
	"os"

	"github.com/Manu343726/toyasm/pkg/hw/cpu/script"
	"github.com/spf13/cobra"
)

var scriptOutput string

var scriptCmd = &cobra.Command{
	Use:   "script <file.star>",
	Short: "Drive the interpreter from a Starlark script",
	Long: `Runs a Starlark script with access to a fresh interpreter.

Scripts can call exec(line), reg(name), mem(address), program(), binary(value)
and reset(), and read the registers list. print() writes to standard output.

Example script:

  for i in range(3):
      exec("incr eax")
  print("eax is", reg("eax"))`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	CpuCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().StringVarP(&scriptOutput, "output", "o", "", "Print the final state in this format: table, yaml, json")
}

func runScript(cmd *cobra.Command, args []string) error {
	s, err := newSession(isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	runner := script.NewRunner(s.dispatcher, cmd.OutOrStdout())
	if _, err := runner.Run(args[0], nil); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if scriptOutput == "" {
		return nil
	}

	return printState(cmd.OutOrStdout(), s, scriptOutput)
}
