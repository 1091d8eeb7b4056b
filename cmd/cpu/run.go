package cpu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/Manu343726/toyasm/pkg/hw/cpu/snapshot"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	ErrUnresolvedLines = errors.New("program has unresolved lines")
	ErrWatchStdin      = errors.New("cannot watch standard input")
)

var (
	runOutput  string
	runVerbose bool
	runStrict  bool
	runWatch   bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a toy assembly program",
	Long: `Executes every line of a toy assembly file, in order, and prints the final
state: registers, written memory and the instruction log.

Use - as file name to read the program from standard input. Lines that cannot
be executed are skipped, as the interactive interpreter does; --strict makes
them fail the command.

With --watch the program runs again, on a fresh processor, every time the
file is saved, until interrupted.

Example:
  toyasm cpu run program.asm
  toyasm cpu run -o yaml program.asm
  toyasm cpu run --watch program.asm
  echo "mov eax, 0x1F" | toyasm cpu run -`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	CpuCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "table", "Final state format: table, yaml, json")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print execution details")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Fail if any instruction has unresolved operands")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Run the program again every time the file changes")
}

func openProgram(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening program: %w", err)
	}

	return f, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := executeProgram(cmd, s, args[0]); err != nil && !(runWatch && errors.Is(err, ErrUnresolvedLines)) {
		return err
	}

	if !runWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return watchProgram(ctx, cmd, s, args[0])
}

// executeProgram runs the program file and prints the final state
func executeProgram(cmd *cobra.Command, s *session, path string) error {
	program, err := openProgram(cmd, path)
	if err != nil {
		return err
	}
	defer program.Close()

	summary, err := s.dispatcher.RunReader(program)
	if err != nil {
		return err
	}

	s.logger.Info("program executed", "file", path, "applied", summary.Applied, "unresolved", summary.Unresolved, "ignored", summary.Ignored)

	errOut := cmd.ErrOrStderr()
	if runVerbose {
		fmt.Fprintf(errOut, "%s: %s\n", path, summary)
	}
	if runVerbose || runStrict {
		for _, n := range summary.UnresolvedLines() {
			colorWarning.Fprintf(errOut, "line %d: %s: operand not resolved\n", n, summary.Results[n-1].Line)
		}
	}

	if err := printState(cmd.OutOrStdout(), s, runOutput); err != nil {
		return err
	}

	if runStrict && summary.Unresolved > 0 {
		return utils.MakeError(ErrUnresolvedLines, "%d lines (%v)", summary.Unresolved, utils.FormatSlice(summary.UnresolvedLines(), ", "))
	}

	return nil
}

// watchProgram executes the program again every time the file is written,
// until ctx is done
func watchProgram(ctx context.Context, cmd *cobra.Command, s *session, path string) error {
	if path == "-" {
		return ErrWatchStdin
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors usually replace the file on save, so the directory is watched
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	s.logger.Info("watching program", "file", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			s.logger.Debug("program changed", "file", target, "op", event.Op.String())
			colorHiBlack.Fprintf(cmd.ErrOrStderr(), "--- %s changed, running again\n", path)

			s.restart()
			if err := executeProgram(cmd, s, path); err != nil {
				colorError.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "file", target, "error", err)
		}
	}
}

// printState writes the session state in the given format: table or any snapshot format
func printState(out io.Writer, s *session, format string) error {
	if format == "" || format == "table" {
		d := s.dispatcher
		colorHeader.Fprintln(out, "=== Registers ===")
		fmt.Fprint(out, s.formatter.FormatRegisters(d.Processor().Registers()))
		colorHeader.Fprintln(out, "=== Memory ===")
		fmt.Fprint(out, s.formatter.FormatMemory(d.Processor().Memory()))
		colorHeader.Fprintln(out, "=== Program ===")
		fmt.Fprint(out, s.formatter.FormatLog(d.Log()))
		return nil
	}

	f, err := snapshot.ParseFormat(format)
	if err != nil {
		return err
	}

	state := snapshot.Take(s.dispatcher)
	return state.Encode(out, f)
}
