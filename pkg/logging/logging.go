// Package logging builds the slog loggers used by the toyasm commands.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

var ErrInvalidLevel = errors.New("invalid log level")

// Config selects where log records go
type Config struct {
	// Minimum level written to the console: debug, info, warn or error
	Level string
	// Optional file receiving every record, debug included, as JSON lines
	File string
}

// ParseLevel parses a level name, matched case insensitively
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return level, fmt.Errorf("%w: '%v'", ErrInvalidLevel, name)
	}

	return level, nil
}

// New builds a logger writing text records to console and, if configured,
// JSON records to a file. The returned function closes the file.
func New(config Config, console io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelWarn
	if config.Level != "" {
		var err error
		if level, err = ParseLevel(config.Level); err != nil {
			return nil, nil, err
		}
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	}

	closer := func() error { return nil }

	if config.File != "" {
		file, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}

		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closer = file.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
