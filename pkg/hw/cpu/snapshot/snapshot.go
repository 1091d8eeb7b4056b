// Package snapshot captures read-only copies of the interpreter state and
// encodes them for display or export.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Manu343726/toyasm/pkg/hw/cpu"
	"github.com/Manu343726/toyasm/pkg/utils"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown snapshot format")

// Register is the value of one register
type Register struct {
	Name  string   `yaml:"name" json:"name"`
	Value cpu.Word `yaml:"value" json:"value"`
}

// Cell is one written memory cell
type Cell struct {
	Address cpu.Address `yaml:"address" json:"address"`
	Value   cpu.Word    `yaml:"value" json:"value"`
}

// Snapshot is a copy of the registers, written memory and instruction log
type Snapshot struct {
	// Registers in declaration order
	Registers []Register `yaml:"registers" json:"registers"`
	// Written memory cells sorted by address
	Memory []Cell `yaml:"memory" json:"memory"`
	// Instruction log
	Program []string `yaml:"program" json:"program"`
}

// Source is anything exposing the interpreter state for read back
type Source interface {
	Processor() *cpu.Processor
	Log() []string
}

// Take copies the current state of the source
func Take(source Source) Snapshot {
	p := source.Processor()
	registers := p.Registers()
	memory := p.Memory()

	s := Snapshot{
		Registers: make([]Register, 0, len(registers)),
		Memory:    make([]Cell, 0, len(memory)),
		Program:   source.Log(),
	}

	for _, r := range cpu.AllRegisters() {
		s.Registers = append(s.Registers, Register{Name: r.String(), Value: registers[r]})
	}

	for _, address := range utils.SortedKeys(memory) {
		s.Memory = append(s.Memory, Cell{Address: address, Value: memory[address]})
	}

	if s.Program == nil {
		s.Program = []string{}
	}

	return s
}

// Returns the value of the named register, matched case insensitively
func (s *Snapshot) Register(name string) (cpu.Word, bool) {
	for _, r := range s.Registers {
		if strings.EqualFold(r.Name, name) {
			return r.Value, true
		}
	}

	return 0, false
}

// Format selects the snapshot encoding
type Format string

const (
	Format_YAML Format = "yaml"
	Format_JSON Format = "json"
)

// Formats returns the supported formats
func Formats() []Format {
	return []Format{Format_YAML, Format_JSON}
}

// ParseFormat returns the format with the given name, matched case insensitively
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if strings.EqualFold(string(f), name) {
			return f, nil
		}
	}

	return "", utils.MakeError(ErrUnknownFormat, "'%v' (supported: %v)", name, utils.FormatSlice(Formats(), ", "))
}

// Encode writes the snapshot to w in the given format
func (s *Snapshot) Encode(w io.Writer, format Format) error {
	switch format {
	case Format_YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml snapshot: %w", err)
		}
		return encoder.Close()
	case Format_JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s); err != nil {
			return fmt.Errorf("encoding json snapshot: %w", err)
		}
		return nil
	default:
		return utils.MakeError(ErrUnknownFormat, "'%v'", format)
	}
}

// Decode reads a snapshot previously written by Encode
func Decode(r io.Reader, format Format) (Snapshot, error) {
	var s Snapshot

	switch format {
	case Format_YAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return s, fmt.Errorf("decoding yaml snapshot: %w", err)
		}
	case Format_JSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return s, fmt.Errorf("decoding json snapshot: %w", err)
		}
	default:
		return s, utils.MakeError(ErrUnknownFormat, "'%v'", format)
	}

	return s, nil
}
