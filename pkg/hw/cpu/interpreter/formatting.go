// Package interpreter executes textual toy assembly instructions.
//
// # Formatting - Output Formatting Utilities
//
// This file provides the pure transforms shells use to display processor
// state: binary glyph rendering, instruction colorization and register,
// memory and instruction log dumps. None of them touch processor state.
package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/utils"
	"github.com/fatih/color"
)

// FormatStyle controls the output style for formatting functions
type FormatStyle int

const (
	// StylePlain produces plain text output without colors
	StylePlain FormatStyle = iota
	// StyleColored produces colorized output using ANSI escape codes
	StyleColored
)

const (
	// Glyph used for zero bits unless configured otherwise
	DefaultZeroGlyph = "░"
	// Glyph used for one bits unless configured otherwise
	DefaultOneGlyph = "█"
	// Glyphs per group unless configured otherwise
	DefaultGlyphGroup = 4
)

// OutputConfig configures output formatting
type OutputConfig struct {
	// Style controls whether output is colorized
	Style FormatStyle
	// Glyph rendered for 0 bits
	ZeroGlyph string
	// Glyph rendered for 1 bits
	OneGlyph string
	// Number of glyphs per group, counted from the least significant bit. 0 disables grouping
	GlyphGroup int
}

// DefaultOutputConfig returns a plain style configuration with the default glyphs
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Style:      StylePlain,
		ZeroGlyph:  DefaultZeroGlyph,
		OneGlyph:   DefaultOneGlyph,
		GlyphGroup: DefaultGlyphGroup,
	}
}

// Glyphs renders the minimal binary representation of the word bit pattern,
// most significant bit first, one glyph per bit. Zero renders as a single
// zero glyph.
func Glyphs(value cpu.Word, zero, one string) []string {
	binary := strconv.FormatUint(uint64(value.Bits()), 2)
	glyphs := make([]string, len(binary))

	for i, bit := range binary {
		if bit == '1' {
			glyphs[i] = one
		} else {
			glyphs[i] = zero
		}
	}

	return glyphs
}

// FormatGlyphs joins glyphs in groups of the given size, counted from the
// least significant (last) glyph
func FormatGlyphs(glyphs []string, group int, separator string) string {
	if group <= 0 {
		return strings.Join(glyphs, "")
	}

	var builder strings.Builder
	lead := len(glyphs) % group

	for i, glyph := range glyphs {
		if i > 0 && (i-lead)%group == 0 {
			builder.WriteString(separator)
		}
		builder.WriteString(glyph)
	}

	return builder.String()
}

// Formatter renders processor state and instructions for display
type Formatter struct {
	config OutputConfig
}

// NewFormatter creates a new formatter. Empty glyphs fall back to the defaults
func NewFormatter(config OutputConfig) *Formatter {
	if config.ZeroGlyph == "" {
		config.ZeroGlyph = DefaultZeroGlyph
	}
	if config.OneGlyph == "" {
		config.OneGlyph = DefaultOneGlyph
	}
	if config.GlyphGroup < 0 {
		config.GlyphGroup = 0
	}

	return &Formatter{config: config}
}

// Config returns the formatter configuration
func (f *Formatter) Config() OutputConfig {
	return f.config
}

// FormatBinary renders a word as grouped glyphs
func (f *Formatter) FormatBinary(value cpu.Word) string {
	return FormatGlyphs(Glyphs(value, f.config.ZeroGlyph, f.config.OneGlyph), f.config.GlyphGroup, " ")
}

// Regular expressions for parsing instruction parts
var (
	regPattern     = regexp.MustCompile(`(?i)\b(eip|esp|eax|ebx|ecx|edx)\b`)
	immPattern     = regexp.MustCompile(`(?i)\b0x[0-9a-f]+\b|\b[0-9]+\b`)
	opcodePattern  = regexp.MustCompile(`^[A-Za-z]+`)
	commentPattern = regexp.MustCompile(CommentPrefix + `.*$`)
)

// Instruction part colors
var (
	instrOpcode  = color.New(color.FgYellow, color.Bold)
	instrReg     = color.New(color.FgGreen)
	instrImm     = color.New(color.FgCyan)
	instrComment = color.New(color.FgHiBlack)
)

// FormatInstruction formats an instruction line
func (f *Formatter) FormatInstruction(instr string) string {
	if f.config.Style == StylePlain {
		return instr
	}
	return colorizeInstruction(instr)
}

// colorizeInstruction highlights the opcode, registers, literals and comment of a line
func colorizeInstruction(instr string) string {
	instr = strings.TrimSpace(instr)
	if instr == "" {
		return instr
	}

	comment := ""
	if loc := commentPattern.FindStringIndex(instr); loc != nil {
		comment = instrComment.Sprint(instr[loc[0]:])
		instr = instr[:loc[0]]
	}

	opcodeLoc := opcodePattern.FindStringIndex(instr)
	if opcodeLoc == nil {
		return instr + comment
	}

	result := instrOpcode.Sprint(instr[opcodeLoc[0]:opcodeLoc[1]])
	rest := instr[opcodeLoc[1]:]

	rest = regPattern.ReplaceAllStringFunc(rest, func(reg string) string {
		return instrReg.Sprint(reg)
	})
	rest = replaceOutsideEscapes(rest, immPattern, instrImm)

	return result + rest + comment
}

// replaceOutsideEscapes colors matches of pattern, skipping the digits that
// belong to ANSI escape sequences already in the text
func replaceOutsideEscapes(text string, pattern *regexp.Regexp, c *color.Color) string {
	var builder strings.Builder

	for len(text) > 0 {
		escape := strings.Index(text, "\x1b[")
		plain := text
		if escape >= 0 {
			plain = text[:escape]
		}

		builder.WriteString(pattern.ReplaceAllStringFunc(plain, func(match string) string {
			return c.Sprint(match)
		}))

		if escape < 0 {
			break
		}

		end := strings.IndexByte(text[escape:], 'm')
		if end < 0 {
			builder.WriteString(text[escape:])
			break
		}

		builder.WriteString(text[escape : escape+end+1])
		text = text[escape+end+1:]
	}

	return builder.String()
}

// FormatRegisters dumps every register in declaration order, one per line
func (f *Formatter) FormatRegisters(registers map[cpu.Register]cpu.Word) string {
	var sb strings.Builder

	for _, r := range cpu.AllRegisters() {
		value := registers[r]
		sb.WriteString(fmt.Sprintf("%-4s %s %11d  %s\n",
			f.paint(instrReg, r.String()),
			f.paint(instrImm, utils.FormatUintHex(uint64(value.Bits()), 8)),
			value,
			f.FormatBinary(value)))
	}

	return sb.String()
}

// FormatMemory dumps the written memory cells sorted by address
func (f *Formatter) FormatMemory(memory map[cpu.Address]cpu.Word) string {
	if len(memory) == 0 {
		return "(empty)\n"
	}

	var sb strings.Builder

	for _, address := range utils.SortedKeys(memory) {
		value := memory[address]
		sb.WriteString(fmt.Sprintf("[%s] %11d  %s\n",
			f.paint(instrImm, utils.FormatUintHex(uint64(address.Bits()), 8)),
			value,
			f.FormatBinary(value)))
	}

	return sb.String()
}

// FormatLog dumps the instruction log as a numbered listing
func (f *Formatter) FormatLog(entries []string) string {
	if len(entries) == 0 {
		return "(empty)\n"
	}

	var sb strings.Builder

	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%4d  %s\n", i+1, f.FormatInstruction(entry)))
	}

	return sb.String()
}

func (f *Formatter) paint(c *color.Color, text string) string {
	if f.config.Style == StylePlain {
		return text
	}
	return c.Sprint(text)
}
