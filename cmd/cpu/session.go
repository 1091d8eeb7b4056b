package cpu

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Manu343726/toyasm/pkg/config"
	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/logging"
	"github.com/fatih/color"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// session bundles the interpreter state and the output settings shared by
// every command
type session struct {
	config     config.Config
	dispatcher *interpreter.Dispatcher
	formatter  *interpreter.Formatter
	logger     *slog.Logger
	closeLog   func() error
}

// newSession builds a fresh processor and dispatcher from the current
// configuration and runs the configured preload lines. colored tells whether
// the output device supports colors.
func newSession(colored bool) (*session, error) {
	c, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(c.LoggingConfig(), os.Stderr)
	if err != nil {
		return nil, err
	}

	output := c.OutputConfig(colored)
	if output.Style == interpreter.StylePlain {
		color.NoColor = true
	}

	dispatcher := interpreter.NewDispatcher(cpu.NewProcessor())
	dispatcher.SetLogger(logger)

	s := &session{
		config:     c,
		dispatcher: dispatcher,
		formatter:  interpreter.NewFormatter(output),
		logger:     logger,
		closeLog:   closeLog,
	}

	s.preload()

	return s, nil
}

// preload runs the configured preload lines
func (s *session) preload() {
	if len(s.config.Preload) == 0 {
		return
	}

	for i, line := range s.config.Preload {
		if result := s.dispatcher.Dispatch(line); result.Outcome != interpreter.Outcome_Applied {
			s.logger.Warn("preload line not applied", "index", i, "line", line, "outcome", result.Outcome.String())
		}
	}
	s.logger.Info("preloaded instructions", "lines", len(s.config.Preload))
}

// restart puts the session back to its initial state, preload included
func (s *session) restart() {
	s.dispatcher.Reset()
	s.preload()
}

func (s *session) Close() error {
	if s.closeLog == nil {
		return nil
	}

	if err := s.closeLog(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return nil
}

// isTerminal tells whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getTerminalSize returns terminal width and height, with fallback defaults
func getTerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}
