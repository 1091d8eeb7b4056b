// Package config holds the toyasm settings read through viper from flags,
// the environment and the optional $HOME/.toyasm.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Manu343726/toyasm/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/toyasm/pkg/logging"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyPrompt     = "prompt"
	KeyColor      = "color"
	KeyHistory    = "history"
	KeyPreload    = "preload"
	KeyZeroGlyph  = "glyphs.zero"
	KeyOneGlyph   = "glyphs.one"
	KeyGlyphGroup = "glyphs.group"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
)

// Name of the config file searched in the home directory, without extension
const FileName = ".toyasm"

// Prefix of the environment variables overriding config keys, e.g. TOYASM_LOG_LEVEL
const EnvPrefix = "TOYASM"

type GlyphsConfig struct {
	Zero  string `mapstructure:"zero"`
	One   string `mapstructure:"one"`
	Group int    `mapstructure:"group"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	// REPL prompt
	Prompt string `mapstructure:"prompt"`
	// Colorize output when writing to a terminal
	Color bool `mapstructure:"color"`
	// REPL history file. Empty disables history
	History string `mapstructure:"history"`
	// Instruction lines executed when a session starts
	Preload []string `mapstructure:"preload"`
	Glyphs  GlyphsConfig `mapstructure:"glyphs"`
	Log     LogConfig    `mapstructure:"log"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPrompt, "> ")
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyHistory, defaultHistoryFile())
	v.SetDefault(KeyPreload, []string{})
	v.SetDefault(KeyZeroGlyph, interpreter.DefaultZeroGlyph)
	v.SetDefault(KeyOneGlyph, interpreter.DefaultOneGlyph)
	v.SetDefault(KeyGlyphGroup, interpreter.DefaultGlyphGroup)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFile, "")
}

// Load decodes the settings currently known by v
func Load(v *viper.Viper) (Config, error) {
	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}

	return c, nil
}

// OutputConfig returns the formatting settings. colored tells whether the
// output device supports colors; it is ignored if colors are disabled.
func (c *Config) OutputConfig(colored bool) interpreter.OutputConfig {
	style := interpreter.StylePlain
	if c.Color && colored {
		style = interpreter.StyleColored
	}

	return interpreter.OutputConfig{
		Style:      style,
		ZeroGlyph:  c.Glyphs.Zero,
		OneGlyph:   c.Glyphs.One,
		GlyphGroup: c.Glyphs.Group,
	}
}

// LoggingConfig returns the logger settings
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level: c.Log.Level,
		File:  c.Log.File,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toyasm_history"
	}

	return filepath.Join(home, ".toyasm_history")
}
