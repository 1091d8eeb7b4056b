package cpu

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/isa"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/snapshot"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

// =============================================================================
// Color definitions for CLI output
// =============================================================================

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorSuccess = color.New(color.FgGreen)
	colorWarning = color.New(color.FgYellow)
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
	colorHiBlack = color.New(color.FgHiBlack)
	colorCommand = color.New(color.FgHiMagenta, color.Bold)
)

var replQuiet bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive toy assembly interpreter",
	Long: `Reads instructions from the terminal and executes them one at a time.

After every executed instruction the registers and the written memory are
printed. Besides instructions the prompt accepts these commands:

  program          show the instruction log
  regs             show the registers
  mem              show the written memory
  bin <operand>    show the binary glyphs of a register or literal
  state            dump the whole state as YAML
  reset            zero every register and memory cell, clear the log
  help             list instructions and commands
  quit             leave`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	CpuCmd.AddCommand(replCmd)
	replCmd.Flags().BoolVarP(&replQuiet, "quiet", "q", false, "Do not print the state after each instruction")
}

// Commands understood by the shell besides instructions
var shellCommands = []string{"program", "regs", "registers", "mem", "memory", "bin", "state", "reset", "help", "quit", "exit"}

// shell handles the lines typed at the prompt
type shell struct {
	session *session
	out     io.Writer
	// Print registers and memory after every applied instruction
	dumpState bool
}

func newShell(s *session, out io.Writer, dumpState bool) *shell {
	return &shell{
		session:   s,
		out:       out,
		dumpState: dumpState,
	}
}

// handle processes one input line. Returns true when the user asked to leave.
func (sh *shell) handle(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	d := sh.session.dispatcher
	f := sh.session.formatter

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true

	case "program":
		colorHeader.Fprintln(sh.out, "=== Program ===")
		fmt.Fprint(sh.out, f.FormatLog(d.Log()))

	case "regs", "registers":
		sh.showRegisters()

	case "mem", "memory":
		sh.showMemory()

	case "bin":
		if len(fields) < 2 {
			colorError.Fprintln(sh.out, "Usage: bin <register|literal>")
			return false
		}
		value, ok := interpreter.ResolveValue(d.Processor(), fields[1])
		if !ok {
			colorError.Fprintf(sh.out, "Cannot resolve '%s'\n", fields[1])
			return false
		}
		fmt.Fprintf(sh.out, "%d = %s\n", value, f.FormatBinary(value))

	case "state":
		s := snapshot.Take(d)
		if err := s.Encode(sh.out, snapshot.Format_YAML); err != nil {
			colorError.Fprintf(sh.out, "Error: %v\n", err)
		}

	case "reset":
		d.Reset()
		colorSuccess.Fprintln(sh.out, "Processor reset.")

	case "help":
		sh.showHelp()

	default:
		sh.execute(line)
	}

	return false
}

func (sh *shell) execute(line string) {
	result := sh.session.dispatcher.Dispatch(line)

	switch result.Outcome {
	case interpreter.Outcome_Applied:
		if sh.dumpState {
			sh.showRegisters()
			sh.showMemory()
		}
	case interpreter.Outcome_Unresolved:
		colorWarning.Fprintf(sh.out, "%s: operand not resolved, nothing executed (expected %s)\n",
			result.Line, result.OpCode.Family().Syntax())
	case interpreter.Outcome_Ignored:
		if result.Line != "" {
			colorHiBlack.Fprintf(sh.out, "ignored: %s\n", result.Line)
		}
	}
}

func (sh *shell) showRegisters() {
	colorHeader.Fprintln(sh.out, "=== Registers ===")
	fmt.Fprint(sh.out, sh.session.formatter.FormatRegisters(sh.session.dispatcher.Processor().Registers()))
}

func (sh *shell) showMemory() {
	colorHeader.Fprintln(sh.out, "=== Memory ===")
	fmt.Fprint(sh.out, sh.session.formatter.FormatMemory(sh.session.dispatcher.Processor().Memory()))
}

func (sh *shell) showHelp() {
	colorHeader.Fprintln(sh.out, "Instructions:")
	for _, op := range isa.Opcodes.AllOpCodes() {
		fmt.Fprintf(sh.out, "  %-20s %s\n", colorCommand.Sprint(op.String()), op.Description)
	}

	fmt.Fprintln(sh.out)
	colorHeader.Fprintln(sh.out, "Registers:")
	fmt.Fprintf(sh.out, "  %s\n", utils.FormatSlice(cpu.AllRegisters(), ", "))

	fmt.Fprintln(sh.out)
	colorHeader.Fprintln(sh.out, "Commands:")
	fmt.Fprintf(sh.out, "  %s\n", strings.Join(shellCommands, ", "))
}

// complete suggests completions for the last word of the input
func complete(input string) []string {
	prefix, word := "", input
	if i := strings.LastIndexAny(input, " ,"); i >= 0 {
		prefix, word = input[:i+1], input[i+1:]
	}

	var candidates []string
	if strings.TrimSpace(prefix) == "" {
		candidates = append(isa.Opcodes.Mnemonics(), shellCommands...)
	} else {
		candidates = utils.Map(cpu.AllRegisters(), cpu.Register.String)
	}

	var completions []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, strings.ToLower(word)) {
			completions = append(completions, prefix+candidate)
		}
	}
	return completions
}

func runRepl(cmd *cobra.Command, args []string) error {
	s, err := newSession(isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(false)
	line.SetCompleter(complete)

	historyFile := s.config.History
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	sh := newShell(s, cmd.OutOrStdout(), !replQuiet)

	width, _ := getTerminalSize()
	colorHiBlack.Fprintln(sh.out, strings.Repeat("─", min(width, 60)))
	colorSuccess.Fprintln(sh.out, "Type 'help' for available instructions and commands.")

	for {
		input, err := line.Prompt(s.config.Prompt)
		if err != nil {
			if err == io.EOF {
				colorSuccess.Fprintln(sh.out, "\nBye.")
				break
			}
			// Ctrl+C at prompt - tell user to use quit command
			if err == liner.ErrPromptAborted {
				colorWarning.Fprintln(sh.out, "Use 'quit' or 'exit' to leave.")
				continue
			}
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if sh.handle(input) {
			break
		}
	}

	if historyFile != "" {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			s.logger.Warn("cannot save history", "file", historyFile, "error", err)
		}
	}

	return nil
}
